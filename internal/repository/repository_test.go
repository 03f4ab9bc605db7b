package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/persistence"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

type repos struct {
	admins AdminRepository
	users  WorkforceUserRepository
}

func memoryRepos(t *testing.T) repos {
	t.Helper()
	m := NewMemoryStore()
	return repos{admins: m.Admins(), users: m.Users()}
}

func postgresRepos(t *testing.T) repos {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping Postgres repository tests")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	return repos{admins: NewAdminRepository(pool), users: NewWorkforceUserRepository(pool)}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func exerciseRepositories(t *testing.T, r repos) {
	ctx := context.Background()
	limit := 2
	admin := &domain.Admin{
		Name:         "Asha",
		Email:        uniqueEmail("Asha"),
		PasswordHash: "hash",
		Role:         domain.RoleAdmin,
		UserLimit:    &limit,
		Active:       true,
	}
	require.NoError(t, r.admins.Create(ctx, admin))
	require.NotZero(t, admin.ID)

	dup := *admin
	assert.ErrorIs(t, r.admins.Create(ctx, &dup), ErrDuplicateEmail)

	byEmail, err := r.admins.GetByEmail(ctx, admin.Email)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, byEmail.ID)
	require.NotNil(t, byEmail.UserLimit)
	assert.Equal(t, 2, *byEmail.UserLimit)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, r.admins.TouchLogin(ctx, admin.ID, now))
	got, err := r.admins.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, now.Equal(got.LastLogin.UTC()))

	got.Active = false
	require.NoError(t, r.admins.Update(ctx, got))
	inactive := false
	role := domain.RoleAdmin
	list, err := r.admins.List(ctx, AdminFilter{Role: &role, Active: &inactive, Limit: 500})
	require.NoError(t, err)
	assert.Contains(t, adminIDs(list), admin.ID)

	first := &domain.WorkforceUser{AdminID: admin.ID, Name: "Ravi Kumar", Email: uniqueEmail("ravi"), PasswordHash: "h", IsActive: true}
	second := &domain.WorkforceUser{AdminID: admin.ID, Name: "Meera", Email: uniqueEmail("meera"), PasswordHash: "h", Phone: "555-0100", IsActive: true}
	require.NoError(t, r.users.Create(ctx, first))
	require.NoError(t, r.users.Create(ctx, second))
	assert.ErrorIs(t, r.users.Create(ctx, &domain.WorkforceUser{AdminID: admin.ID, Name: "x", Email: first.Email, PasswordHash: "h"}), ErrDuplicateEmail)

	count, err := r.users.CountByAdmin(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	users, err := r.users.List(ctx, UserFilter{AdminID: admin.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID, "newest first")
	assert.Equal(t, "555-0100", users[0].Phone)

	users, err = r.users.List(ctx, UserFilter{AdminID: admin.ID, Search: "ravi"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, first.ID, users[0].ID)

	require.NoError(t, r.users.SetActive(ctx, first.ID, false))
	active := true
	users, err = r.users.List(ctx, UserFilter{AdminID: admin.ID, Active: &active})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, second.ID, users[0].ID)

	require.NoError(t, r.users.Delete(ctx, first.ID))
	_, err = r.users.GetByID(ctx, first.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(err).Code)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(r.users.Delete(ctx, first.ID)).Code)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(r.users.SetActive(ctx, first.ID, true)).Code)

	_, err = r.admins.GetByID(ctx, -1)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(err).Code)
}

func adminIDs(admins []domain.Admin) []int64 {
	ids := make([]int64, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestMemoryRepositories(t *testing.T) {
	exerciseRepositories(t, memoryRepos(t))
}

func TestPostgresRepositories(t *testing.T) {
	exerciseRepositories(t, postgresRepos(t))
}

func TestMemoryListPaging(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Users().Create(ctx, &domain.WorkforceUser{AdminID: 1, Name: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("u%d@example.com", i)}))
	}

	page1, err := m.Users().List(ctx, UserFilter{AdminID: 1, Limit: 2})
	require.NoError(t, err)
	page3, err := m.Users().List(ctx, UserFilter{AdminID: 1, Limit: 2, Offset: 4})
	require.NoError(t, err)
	empty, err := m.Users().List(ctx, UserFilter{AdminID: 1, Offset: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{"u4", "u3"}, userNames(page1))
	assert.Equal(t, []string{"u0"}, userNames(page3))
	assert.Empty(t, empty)
}

func TestMemoryMarkSynced(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	u := &domain.WorkforceUser{AdminID: 1, Name: "a", Email: "a@example.com"}
	require.NoError(t, m.Users().Create(ctx, u))

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, m.MarkSynced(u.ID, at))
	got, err := m.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSyncAt)
	assert.Equal(t, at, *got.LastSyncAt)
	assert.ErrorIs(t, m.MarkSynced(99, at), apperrors.ErrNotFound)
}

func userNames(users []domain.WorkforceUser) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return names
}
