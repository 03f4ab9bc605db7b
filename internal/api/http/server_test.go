package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stub "github.com/spec-kit/workforce-console/internal/api/http"
	"github.com/spec-kit/workforce-console/internal/api/http/handlers"
	"github.com/spec-kit/workforce-console/internal/config"
	"github.com/spec-kit/workforce-console/internal/observability"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Name: "workforce-stub", Version: "test"},
		Stub: config.StubConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
			AdminEmail:            "admin@example.com",
			AdminPassword:         "admin123",
			SuperAdminEmail:       "root@example.com",
			SuperAdminPassword:    "root123",
			AdminUserLimit:        3,
		},
	}
}

type failingProbe struct{}

func (failingProbe) Ping(context.Context) error { return errors.New("connection refused") }

func newApp(t *testing.T, probes map[string]handlers.Pinger) *fiber.App {
	t.Helper()
	app, err := stub.NewServer(context.Background(), stub.ServerDeps{
		Config:  testConfig(),
		Metrics: observability.NewMetrics(),
		Probes:  probes,
	})
	require.NoError(t, err)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, path, email, password string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, path, "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, status, body)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	app := newApp(t, nil)
	status, body := call(t, app, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, _ = call(t, app, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, status)

	down := newApp(t, map[string]handlers.Pinger{"postgres": failingProbe{}})
	status, body = call(t, down, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "one or more dependencies unavailable", body["error"])
}

func TestLoginResponses(t *testing.T) {
	app := newApp(t, nil)

	status, body := call(t, app, http.MethodPost, "/api/admin/login", "", `{"email":"admin@example.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
	assert.Equal(t, float64(3), user["user_limit"])

	status, body = call(t, app, http.MethodPost, "/api/admin/login", "", `{"email":"admin@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email and password are required", body["error"])

	status, body = call(t, app, http.MethodPost, "/api/admin/login", "", `{"email":"admin@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["error"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, _ = call(t, app, http.MethodPost, "/api/superadmin/login", "", `{"email":"admin@example.com","password":"admin123"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/admin/login", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProtectedRoutesEnforceTokenAndRole(t *testing.T) {
	app := newApp(t, nil)
	adminToken := login(t, app, "/api/admin/login", "admin@example.com", "admin123")
	rootToken := login(t, app, "/api/superadmin/login", "root@example.com", "root123")

	status, _ := call(t, app, http.MethodGet, "/api/admin/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodGet, "/api/admin/users", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, http.MethodGet, "/api/superadmin/admins", adminToken, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Super admin role required", body["error"])

	status, _ = call(t, app, http.MethodGet, "/api/admin/dashboard-stats", rootToken, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, app, http.MethodGet, "/api/nowhere", adminToken, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestAdminUserLifecycle(t *testing.T) {
	app := newApp(t, nil)
	token := login(t, app, "/api/admin/login", "admin@example.com", "admin123")

	status, body := call(t, app, http.MethodPost, "/api/admin/create-user", token, `{"name":"Ravi","email":"ravi@example.com","password":"pw","phone":"555"}`)
	require.Equal(t, http.StatusCreated, status, body)
	id := int64(body["user_id"].(float64))

	status, body = call(t, app, http.MethodGet, "/api/admin/users?status=active", token, "")
	require.Equal(t, http.StatusOK, status)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "ravi@example.com", users[0].(map[string]any)["email"])
	assert.NotContains(t, users[0].(map[string]any), "password_hash")

	path := "/api/admin/user/" + strconv.FormatInt(id, 10) + "/status"
	status, body = call(t, app, http.MethodPut, path, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["is_active"])

	status, body = call(t, app, http.MethodGet, "/api/admin/dashboard-stats", token, "")
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_users"])
	assert.Equal(t, float64(0), stats["active_users"])
	assert.Equal(t, float64(2), stats["remaining_slots"])

	status, _ = call(t, app, http.MethodDelete, "/api/admin/delete-user/"+strconv.FormatInt(id, 10), token, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodDelete, "/api/admin/delete-user/"+strconv.FormatInt(id, 10), token, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, "/api/admin/users?status=bogus", token, "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, app, http.MethodPut, "/api/admin/user/abc/status", token, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBlockedAdminLosesSession(t *testing.T) {
	app := newApp(t, nil)
	adminToken := login(t, app, "/api/admin/login", "admin@example.com", "admin123")
	rootToken := login(t, app, "/api/superadmin/login", "root@example.com", "root123")

	status, body := call(t, app, http.MethodGet, "/api/superadmin/admins", rootToken, "")
	require.Equal(t, http.StatusOK, status)
	admins := body["admins"].([]any)
	require.Len(t, admins, 1)
	id := int64(admins[0].(map[string]any)["id"].(float64))

	status, body = call(t, app, http.MethodPut, "/api/superadmin/admin/"+strconv.FormatInt(id, 10)+"/status", rootToken, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Admin blocked successfully", body["message"])

	status, _ = call(t, app, http.MethodGet, "/api/admin/users", adminToken, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, app, http.MethodPost, "/api/admin/login", "", `{"email":"admin@example.com","password":"admin123"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Account deactivated", body["error"])
}


func TestActivityLogRoutes(t *testing.T) {
	app := newApp(t, nil)
	adminToken := login(t, app, "/api/admin/login", "admin@example.com", "admin123")
	rootToken := login(t, app, "/api/superadmin/login", "root@example.com", "root123")

	status, _ := call(t, app, http.MethodPost, "/api/admin/create-user", adminToken,
		`{"name":"Ann","email":"ann@example.com","password":"pw123456"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = call(t, app, http.MethodGet, "/api/superadmin/logs", adminToken, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, body := call(t, app, http.MethodGet, "/api/superadmin/logs", rootToken, "")
	require.Equal(t, http.StatusOK, status)
	logs := body["logs"].([]any)
	require.Len(t, logs, 1)
	entry := logs[0].(map[string]any)
	assert.Equal(t, "Created user ann@example.com", entry["action_type"])
	assert.Equal(t, "admin", entry["role"])
	assert.NotEmpty(t, entry["admin_name"])

	status, body = call(t, app, http.MethodDelete, "/api/superadmin/logs", rootToken, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Deleted 1 logs", body["message"])
}
