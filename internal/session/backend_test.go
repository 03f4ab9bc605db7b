package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workforce-console/internal/domain"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := b.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "admin_token", "one"))
	require.NoError(t, b.Set(ctx, "admin_token", "two"))
	v, ok, err := b.Get(ctx, "admin_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	require.NoError(t, b.Delete(ctx, "admin_token", "never_set"))
	require.NoError(t, b.Delete(ctx, "admin_token"))
	_, ok, err = b.Get(ctx, "admin_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackendPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	b, err := NewFileBackend(path, nil)
	require.NoError(t, err)
	exerciseBackend(t, b)

	s := NewStore(b, nil, nil)
	require.NoError(t, s.SaveLogin(context.Background(), domain.ProfileStandard, "abc123", domain.Identity{Email: "a@example.com"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := NewFileBackend(path, nil)
	require.NoError(t, err)
	token, ok := NewStore(reopened, nil, nil).Token(context.Background(), domain.ProfileStandard)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestFileBackendStartsEmptyOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	b, err := NewFileBackend(path, nil)
	require.NoError(t, err)

	store := NewStore(b, nil, nil)
	_, ok := store.CurrentCredential(context.Background())
	assert.False(t, ok)

	aside, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{", string(aside))

	require.NoError(t, store.SaveLogin(context.Background(), domain.ProfileStandard, "abc123", domain.Identity{Email: "a@example.com"}))
	reopened, err := NewFileBackend(path, nil)
	require.NoError(t, err)
	token, ok := NewStore(reopened, nil, nil).Token(context.Background(), domain.ProfileStandard)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestFileBackendAcceptsNullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	b, err := NewFileBackend(path, nil)
	require.NoError(t, err)

	store := NewStore(b, nil, nil)
	require.NotPanics(t, func() {
		require.NoError(t, store.SaveLogin(context.Background(), domain.ProfileStandard, "abc123", domain.Identity{Email: "a@example.com"}))
	})
	token, ok := store.Token(context.Background(), domain.ProfileStandard)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestSQLiteBackend(t *testing.T) {
	b, err := OpenSQLiteBackend(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	exerciseBackend(t, b)
}

func TestRedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b := NewRedisBackend(client, "test:")
	exerciseBackend(t, b)

	require.NoError(t, b.Set(context.Background(), "admin_token", "abc"))
	assert.True(t, mr.Exists("test:admin_token"))
	assert.Zero(t, mr.TTL("test:admin_token"))
}

func TestRedisBackendUnavailableDegrades(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	s := NewStore(NewRedisBackend(client, ""), nil, nil)
	require.NoError(t, s.SaveLogin(context.Background(), domain.ProfileStandard, "tok", domain.Identity{}))

	mr.Close()

	_, ok := s.CurrentCredential(context.Background())
	assert.False(t, ok)
}

func TestNewBackendFactory(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		b, err := NewBackend(Config{Driver: DriverMemory}, Dependencies{})
		require.NoError(t, err)
		assert.IsType(t, &MemoryBackend{}, b)
	})

	t.Run("file is the default", func(t *testing.T) {
		b, err := NewBackend(Config{StateFile: filepath.Join(t.TempDir(), "s.json")}, Dependencies{})
		require.NoError(t, err)
		assert.IsType(t, &FileBackend{}, b)
	})

	t.Run("sqlite", func(t *testing.T) {
		b, err := NewBackend(Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "s.db")}, Dependencies{})
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		assert.IsType(t, &SQLiteBackend{}, b)
	})

	t.Run("redis without client", func(t *testing.T) {
		_, err := NewBackend(Config{Driver: DriverRedis}, Dependencies{})
		require.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewBackend(Config{Driver: "etcd"}, Dependencies{})
		require.Error(t, err)
	})
}
