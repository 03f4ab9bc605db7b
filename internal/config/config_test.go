package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_ROOT", "")
	t.Setenv("SESSION_DRIVER", "")
	t.Setenv("NOTIFY_DISPLAY_MILLIS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.API.BaseURL)
	assert.Equal(t, "/api", cfg.API.Root)
	assert.Equal(t, "file", cfg.Session.Driver)
	assert.Equal(t, 3*time.Second, cfg.Notification.DisplayDuration())
	assert.Zero(t, cfg.API.Timeout())
	assert.Equal(t, "/admin/login.html", cfg.Login.StandardPath)
	assert.Equal(t, "/super_admin/login.html", cfg.Login.ElevatedPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://console.example.com/")
	t.Setenv("API_TIMEOUT_SECONDS", "15")
	t.Setenv("SESSION_DRIVER", "redis")
	t.Setenv("NOTIFY_DISPLAY_MILLIS", "3500")
	t.Setenv("STUB_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://console.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.Equal(t, "redis", cfg.Session.Driver)
	assert.Equal(t, 3500*time.Millisecond, cfg.Notification.DisplayDuration())
	assert.Equal(t, "127.0.0.1:9090", cfg.Stub.Addr())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("root without slash", func(t *testing.T) {
		t.Setenv("API_ROOT", "api")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("bad redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("non-positive display time", func(t *testing.T) {
		t.Setenv("NOTIFY_DISPLAY_MILLIS", "-1")
		_, err := Load()
		require.Error(t, err)
	})
}
