package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend persists values under a key prefix without expiry; credentials live until
// cleared, matching browser-local storage.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend wraps client. The caller owns the client's lifetime.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "console:session:"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) key(k string) string {
	return b.prefix + k
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := b.client.Get(ctx, b.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key, value string) error {
	return b.client.Set(ctx, b.key(key), value, 0).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, b.key(k))
	}
	return b.client.Del(ctx, full...).Err()
}

func (b *RedisBackend) Close() error { return nil }
