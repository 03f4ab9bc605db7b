package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/events"
)

func loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/superadmin/login" && body.Password == "root":
			_, _ = w.Write([]byte(`{"access_token":"root-token","user":{"id":1,"name":"Root","email":"root@example.com","role":"super_admin"}}`))
		case r.URL.Path == "/api/admin/login" && body.Password == "pw":
			_, _ = w.Write([]byte(`{"access_token":"std-token","user":{"id":4,"name":"Asha","email":"asha@example.com","role":"admin","user_limit":25}}`))
		case body.Email == "off@example.com":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Account deactivated"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
		}
	}
}

func TestLoginStoresCredentialPerProfile(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var started []events.Event
	dispatcher.Subscribe(events.EventSessionStarted, func(_ context.Context, e events.Event) error {
		started = append(started, e)
		return nil
	})
	h, _ := newServerHarness(t, loginHandler(), func(o *Options) { o.Events = dispatcher })
	ctx := context.Background()

	identity, err := h.client.Login(ctx, domain.ProfileStandard, "asha@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Asha", identity.Name)
	require.NotNil(t, identity.UserLimit)
	assert.Equal(t, 25, *identity.UserLimit)

	_, err = h.client.Login(ctx, domain.ProfileElevated, "root@example.com", "root")
	require.NoError(t, err)

	std, _ := h.store.Token(ctx, domain.ProfileStandard)
	root, _ := h.store.Token(ctx, domain.ProfileElevated)
	assert.Equal(t, "std-token", std)
	assert.Equal(t, "root-token", root)
	assert.Equal(t, "asha@example.com", h.client.RememberedEmail(ctx))
	assert.Equal(t, 2, h.notifier.count(MsgSignedIn))
	require.Len(t, started, 2)
	assert.Equal(t, domain.ProfileElevated, started[1].Profile)
}

func TestLoginRejectedSurfacesServerMessage(t *testing.T) {
	h, _ := newServerHarness(t, loginHandler())
	ctx := context.Background()

	_, err := h.client.Login(ctx, domain.ProfileStandard, "asha@example.com", "wrong")
	var loginErr *LoginError
	require.True(t, errors.As(err, &loginErr))
	assert.Equal(t, http.StatusUnauthorized, loginErr.Status)
	assert.Equal(t, "Invalid credentials", loginErr.Message)

	_, err = h.client.Login(ctx, domain.ProfileStandard, "off@example.com", "x")
	require.True(t, errors.As(err, &loginErr))
	assert.Equal(t, http.StatusForbidden, loginErr.Status)

	assert.Equal(t, []pushed{
		{Message: "Invalid credentials", Level: domain.LevelError},
		{Message: "Account deactivated", Level: domain.LevelError},
	}, h.notifier.all())
	_, ok := h.store.CurrentCredential(ctx)
	assert.False(t, ok)
	assert.Empty(t, h.navigator.calls(), "a rejected login is not a teardown")
}

func TestLoginValidatesInput(t *testing.T) {
	doer := &countingDoer{}
	h := newHarness(t, "http://backend", doer)

	_, err := h.client.Login(context.Background(), domain.ProfileStandard, "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = h.client.Login(context.Background(), domain.Profile("guest"), "a@b.c", "pw")
	assert.Error(t, err)
	assert.Zero(t, doer.calls.Load())
}

func TestLoginRearmsAfterTeardown(t *testing.T) {
	h, _ := newServerHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/admin/login" {
			_, _ = w.Write([]byte(`{"access_token":"tok","user":{"name":"Asha","email":"asha@example.com","role":"admin"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	assert.Nil(t, h.client.Request(ctx, "/admin/users", nil))
	assert.True(t, h.client.Halted())

	_, err := h.client.Login(ctx, domain.ProfileStandard, "asha@example.com", "pw")
	require.NoError(t, err)
	assert.False(t, h.client.Halted())
	assert.NotNil(t, h.client.Request(ctx, "/admin/users", nil))
}

func TestLoginTransportFailure(t *testing.T) {
	doer := &countingDoer{fn: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: refused")
	}}
	h := newHarness(t, "http://backend", doer)

	_, err := h.client.Login(context.Background(), domain.ProfileStandard, "a@b.c", "pw")
	assert.Error(t, err)
	assert.Equal(t, 1, h.notifier.count(MsgNetworkError))
}
