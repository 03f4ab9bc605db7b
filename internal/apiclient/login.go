package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/events"
)

// Messages used by the sign-in flow.
const (
	MsgSignedIn    = "Signed in"
	MsgLoginFailed = "Login failed"
)

var loginEndpoints = map[domain.Profile]string{
	domain.ProfileStandard: "/admin/login",
	domain.ProfileElevated: "/superadmin/login",
}

// ErrMissingCredentials is returned when email or password is empty.
var ErrMissingCredentials = errors.New("email and password are required")

// LoginError carries the status and message of a rejected sign-in.
type LoginError struct {
	Status  int
	Message string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login rejected (%d): %s", e.Status, e.Message)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	Token       string          `json:"token"`
	User        domain.Identity `json:"user"`
}

// Login signs in under profile, stores the credential and re-arms the client after a
// previous teardown.
func (c *Client) Login(ctx context.Context, p domain.Profile, email, password string) (*domain.Identity, error) {
	endpoint, ok := loginEndpoints[p]
	if !ok {
		return nil, fmt.Errorf("login: unknown profile %q", p)
	}
	if email == "" || password == "" {
		c.Notify(ErrMissingCredentials.Error(), domain.LevelError)
		return nil, ErrMissingCredentials
	}

	raw, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+normalizePath(c.root, endpoint), bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			c.Notify(MsgNetworkError, domain.LevelError)
		}
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}
	c.metrics.RecordRequest(req.URL.Path, req.Method, resp.StatusCode)

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if !out.OK() {
		msg := out.ErrorMessage()
		if msg == "" {
			msg = MsgLoginFailed
		}
		c.logger.Info("login rejected", zap.String("profile", string(p)), zap.Int("status", resp.StatusCode))
		c.Notify(msg, domain.LevelError)
		return nil, &LoginError{Status: resp.StatusCode, Message: msg}
	}

	var payload loginResponse
	if err := out.Decode(&payload); err != nil {
		c.Notify(MsgLoginFailed, domain.LevelError)
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	token := payload.AccessToken
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		c.Notify(MsgLoginFailed, domain.LevelError)
		return nil, &LoginError{Status: resp.StatusCode, Message: "response carried no token"}
	}

	if err := c.store.SaveLogin(ctx, p, token, payload.User); err != nil {
		c.Notify(MsgLoginFailed, domain.LevelError)
		return nil, fmt.Errorf("save login: %w", err)
	}

	c.mu.Lock()
	c.generation++
	c.redirected = false
	c.mu.Unlock()

	c.logger.Info("signed in", zap.String("profile", string(p)), zap.String("email", payload.User.Email))
	c.publish(ctx, events.NewEvent(events.EventSessionStarted, p, events.SessionStartedPayload{
		Email: payload.User.Email,
		Role:  payload.User.Role,
	}))
	c.Notify(MsgSignedIn, domain.LevelSuccess)

	identity := payload.User
	return &identity, nil
}
