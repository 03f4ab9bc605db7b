package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console client and the stub backend.
type Config struct {
	App          AppConfig
	API          APIConfig
	Session      SessionConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Notification NotificationConfig
	Login        LoginConfig
	Stub         StubConfig
	Postgres     PostgresConfig
}

// AppConfig identifies the running binary.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// APIConfig controls how the client reaches the admin API.
type APIConfig struct {
	BaseURL        string
	Root           string
	TimeoutSeconds int
	// Profile pins the client to one credential profile; empty means elevated-first.
	Profile string
}

// SessionConfig selects the persistent credential backend.
type SessionConfig struct {
	Driver      string
	StateFile   string
	SQLitePath  string
	RedisPrefix string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotificationConfig tunes the notification channel.
type NotificationConfig struct {
	DisplayMillis int
}

// LoginConfig names the sign-in surfaces per profile.
type LoginConfig struct {
	StandardPath string
	ElevatedPath string
}

// StubConfig controls the local stub backend.
type StubConfig struct {
	Host                  string
	Port                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	AdminEmail            string
	AdminPassword         string
	SuperAdminEmail       string
	SuperAdminPassword    string
	AdminUserLimit        int
}

// PostgresConfig holds DB connection values for the stub backend directory.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "workforce-console"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8080"), "/"),
			Root:           getEnv("API_ROOT", "/api"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 0),
			Profile:        os.Getenv("API_PROFILE"),
		},
		Session: SessionConfig{
			Driver:      getEnv("SESSION_DRIVER", "file"),
			StateFile:   getEnv("SESSION_STATE_FILE", defaultStateFile()),
			SQLitePath:  getEnv("SESSION_SQLITE_PATH", "console_session.db"),
			RedisPrefix: getEnv("SESSION_REDIS_PREFIX", "console:session:"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "warn"),
		},
		Notification: NotificationConfig{
			DisplayMillis: getEnvAsInt("NOTIFY_DISPLAY_MILLIS", 3000),
		},
		Login: LoginConfig{
			StandardPath: getEnv("LOGIN_STANDARD_PATH", "/admin/login.html"),
			ElevatedPath: getEnv("LOGIN_ELEVATED_PATH", "/super_admin/login.html"),
		},
		Stub: StubConfig{
			Host:                  getEnv("STUB_HOST", "127.0.0.1"),
			Port:                  getEnv("STUB_PORT", "8080"),
			JWTSecret:             getEnv("STUB_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("STUB_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("STUB_BCRYPT_COST", 10),
			AdminEmail:            getEnv("STUB_ADMIN_EMAIL", "admin@example.com"),
			AdminPassword:         getEnv("STUB_ADMIN_PASSWORD", "admin123"),
			SuperAdminEmail:       getEnv("STUB_SUPER_ADMIN_EMAIL", "root@example.com"),
			SuperAdminPassword:    getEnv("STUB_SUPER_ADMIN_PASSWORD", "root123"),
			AdminUserLimit:        getEnvAsInt("STUB_ADMIN_USER_LIMIT", 25),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
	}

	if cfg.API.Root == "" || !strings.HasPrefix(cfg.API.Root, "/") {
		return nil, fmt.Errorf("API_ROOT must start with '/': %q", cfg.API.Root)
	}
	if cfg.Notification.DisplayMillis <= 0 {
		return nil, fmt.Errorf("NOTIFY_DISPLAY_MILLIS must be > 0")
	}

	return cfg, nil
}

// Addr returns the stub backend bind address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Timeout returns the configured request timeout; zero leaves the transport default.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// DisplayDuration returns how long each notification stays visible.
func (n NotificationConfig) DisplayDuration() time.Duration {
	return time.Duration(n.DisplayMillis) * time.Millisecond
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".workforce-console", "session.json")
	}
	return filepath.Join(home, ".workforce-console", "session.json")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
