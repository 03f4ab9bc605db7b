package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backend is a string key/value store holding credentials for one scope.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Driver identifiers for the persistent backend.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config describes the persistent backend selection.
type Config struct {
	Driver      string
	StateFile   string
	SQLitePath  string
	RedisPrefix string
}

// Dependencies carries handles some drivers need from the caller.
type Dependencies struct {
	Redis    *redis.Client
	SQLiteDB *gorm.DB
	Logger   *zap.Logger
}

// NewBackend creates the persistent backend named by cfg.Driver.
func NewBackend(cfg Config, deps Dependencies) (Backend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}

	switch driver {
	case DriverMemory:
		return NewMemoryBackend(), nil
	case DriverFile:
		return NewFileBackend(cfg.StateFile, deps.Logger)
	case DriverSQLite:
		if deps.SQLiteDB != nil {
			return NewSQLiteBackend(deps.SQLiteDB)
		}
		return OpenSQLiteBackend(cfg.SQLitePath)
	case DriverRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("redis driver requires a client")
		}
		return NewRedisBackend(deps.Redis, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported session driver: %s", driver)
	}
}
