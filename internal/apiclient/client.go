package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/events"
	"github.com/spec-kit/workforce-console/internal/observability"
)

// User-facing messages pushed by the client.
const (
	MsgSignInAgain    = "Please sign in again"
	MsgNetworkError   = "Network error, check connectivity"
	MsgSessionExpired = "Session expired, please sign in again"
	MsgAccessDenied   = "Access denied"
	MsgServerError    = "Server error, try again later"
	MsgBadRequest     = "Could not prepare request"
)

// Outcome labels recorded in metrics.
const (
	OutcomeReturned     = "returned"
	OutcomeNoCredential = "no_credential"
	OutcomeUnauthorized = "unauthenticated"
	OutcomeForbidden    = "forbidden"
	OutcomeServer       = "server"
	OutcomeTransport    = "transport"
	OutcomeHalted       = "halted"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Doer executes HTTP requests; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier surfaces user-facing messages.
type Notifier interface {
	Push(message string, level domain.Level)
}

// SessionStore is the credential storage the client depends on.
type SessionStore interface {
	SaveLogin(ctx context.Context, p domain.Profile, token string, identity domain.Identity) error
	Token(ctx context.Context, p domain.Profile) (string, bool)
	CurrentCredential(ctx context.Context) (domain.Credential, bool)
	Identity(ctx context.Context) *domain.Identity
	ProfileIdentity(ctx context.Context, p domain.Profile) *domain.Identity
	RememberedEmail(ctx context.Context) string
	Clear(ctx context.Context, profiles ...domain.Profile)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Root    string
	// Profile pins the client to one profile. Empty uses the most privileged credential.
	Profile    domain.Profile
	LoginPaths map[domain.Profile]string
	HTTPClient Doer
	Timeout    time.Duration
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Events     events.Dispatcher
}

// RequestOptions carries the optional parts of a request.
type RequestOptions struct {
	Method string
	// Body is sent as-is when it is []byte, json.RawMessage, string or io.Reader and
	// JSON-encoded otherwise.
	Body   any
	Header http.Header
	Query  url.Values
}

// Client is the single choke point for authenticated calls to the admin API.
type Client struct {
	baseURL    string
	root       string
	profile    domain.Profile
	loginPaths map[domain.Profile]string

	http      Doer
	store     SessionStore
	notifier  Notifier
	navigator Navigator
	logger    *zap.Logger
	metrics   *observability.Metrics
	events    events.Dispatcher

	mu         sync.Mutex
	redirected bool
	generation uint64
}

// New builds a client. Nil collaborators are replaced by no-ops.
func New(store SessionStore, notifier Notifier, navigator Navigator, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Root == "" {
		opts.Root = "/api"
	}
	if navigator == nil {
		navigator = NavigatorFunc(func(context.Context, domain.LoginSurface) {})
	}
	paths := map[domain.Profile]string{
		domain.ProfileStandard: "/admin/login.html",
		domain.ProfileElevated: "/super_admin/login.html",
	}
	for p, path := range opts.LoginPaths {
		if path != "" {
			paths[p] = path
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		root:       opts.Root,
		profile:    opts.Profile,
		loginPaths: paths,
		http:       opts.HTTPClient,
		store:      store,
		notifier:   notifier,
		navigator:  navigator,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		events:     opts.Events,
	}
}

// Request performs an authenticated call. It returns nil when the caller must stop:
// no credential, authentication failure, transport failure, or a client that has
// already navigated to login. 403 and 5xx responses are returned after notifying.
func (c *Client) Request(ctx context.Context, path string, opts *RequestOptions) *Response {
	if opts == nil {
		opts = &RequestOptions{}
	}

	gen, halted := c.state()
	if halted {
		c.metrics.RecordOutcome(OutcomeHalted)
		return nil
	}

	cred, ok := c.credential(ctx)
	if !ok {
		c.metrics.RecordOutcome(OutcomeNoCredential)
		c.teardown(ctx, gen, c.fallbackProfile(), MsgSignInAgain, events.EventCredentialMissing, "no credential")
		return nil
	}

	req, err := c.newRequest(ctx, path, cred.Token, opts)
	if err != nil {
		c.logger.Warn("build request failed", zap.String("path", path), zap.Error(err))
		c.Notify(MsgBadRequest, domain.LevelError)
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportFailure(ctx, req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(ctx, req, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		RequestID:  req.Header.Get(RequestIDHeader),
	}
	c.metrics.RecordRequest(req.URL.Path, req.Method, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.metrics.RecordOutcome(OutcomeUnauthorized)
		c.teardown(ctx, gen, cred.Profile, MsgSessionExpired, events.EventSessionExpired, "unauthorized")
		return nil
	case resp.StatusCode == http.StatusForbidden:
		c.metrics.RecordOutcome(OutcomeForbidden)
		c.Notify(MsgAccessDenied, domain.LevelError)
		return out
	case resp.StatusCode >= http.StatusInternalServerError:
		c.metrics.RecordOutcome(OutcomeServer)
		c.logger.Error("server error",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", out.RequestID))
		c.Notify(MsgServerError, domain.LevelError)
		return out
	default:
		c.metrics.RecordOutcome(OutcomeReturned)
		return out
	}
}

func (c *Client) newRequest(ctx context.Context, path, token string, opts *RequestOptions) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + normalizePath(c.root, path)
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + opts.Query.Encode()
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vals := range opts.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	// Set last so caller headers cannot replace them.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(raw), nil
	}
}

func (c *Client) transportFailure(ctx context.Context, req *http.Request, err error) *Response {
	if ctx.Err() != nil {
		c.logger.Debug("request abandoned", zap.String("path", req.URL.Path), zap.Error(ctx.Err()))
		return nil
	}
	c.metrics.RecordOutcome(OutcomeTransport)
	c.logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
	c.Notify(MsgNetworkError, domain.LevelError)
	return nil
}

func (c *Client) state() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, c.redirected
}

func (c *Client) credential(ctx context.Context) (domain.Credential, bool) {
	if c.profile != "" {
		token, ok := c.store.Token(ctx, c.profile)
		return domain.Credential{Token: token, Profile: c.profile}, ok
	}
	return c.store.CurrentCredential(ctx)
}

func (c *Client) fallbackProfile() domain.Profile {
	if c.profile != "" {
		return c.profile
	}
	return domain.ProfileStandard
}

func (c *Client) loginSurface(p domain.Profile) domain.LoginSurface {
	return domain.LoginSurface{Profile: p, Path: c.loginPaths[p]}
}

// teardown clears credentials and navigates to login at most once per session
// generation. Concurrent failures and failures of requests issued before the latest
// Login collapse into nothing.
func (c *Client) teardown(ctx context.Context, gen uint64, p domain.Profile, message string, eventType events.EventType, reason string) {
	c.mu.Lock()
	if c.redirected || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.redirected = true
	c.mu.Unlock()

	if message != "" {
		c.Notify(message, domain.LevelError)
	}
	if eventType == events.EventCredentialMissing && c.profile == "" {
		c.store.Clear(ctx)
	} else {
		c.store.Clear(ctx, p)
	}

	surface := c.loginSurface(p)
	c.logger.Info("session torn down", zap.String("profile", string(p)), zap.String("reason", reason))
	c.publish(ctx, events.NewEvent(eventType, p, events.SessionEndedPayload{LoginPath: surface.Path, Reason: reason}))
	c.navigator.Navigate(ctx, surface)
}

func (c *Client) publish(ctx context.Context, e events.Event) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(ctx, e); err != nil {
		c.logger.Warn("event handler failed", zap.String("event", string(e.Type)), zap.Error(err))
	}
}

// Notify pushes a message to the notification channel.
func (c *Client) Notify(message string, level domain.Level) {
	if c.notifier == nil {
		return
	}
	c.notifier.Push(message, level)
}

// Identity returns the cached identity for the active profile, or nil.
func (c *Client) Identity(ctx context.Context) *domain.Identity {
	if c.profile != "" {
		if _, ok := c.store.Token(ctx, c.profile); !ok {
			return nil
		}
		return c.store.ProfileIdentity(ctx, c.profile)
	}
	return c.store.Identity(ctx)
}

// RememberedEmail returns the email used for the last standard sign-in.
func (c *Client) RememberedEmail(ctx context.Context) string {
	return c.store.RememberedEmail(ctx)
}

// RequireSession guards a protected surface: with no credential it performs the
// teardown and navigation and returns false.
func (c *Client) RequireSession(ctx context.Context) bool {
	gen, halted := c.state()
	if halted {
		return false
	}
	if _, ok := c.credential(ctx); ok {
		return true
	}
	c.teardown(ctx, gen, c.fallbackProfile(), "", events.EventCredentialMissing, "no credential")
	return false
}

// Logout clears every profile and navigates to login.
func (c *Client) Logout(ctx context.Context) {
	p := c.fallbackProfile()
	if cred, ok := c.credential(ctx); ok {
		p = cred.Profile
	}

	c.mu.Lock()
	c.redirected = true
	c.mu.Unlock()

	c.store.Clear(ctx)
	surface := c.loginSurface(p)
	c.publish(ctx, events.NewEvent(events.EventSessionEnded, p, events.SessionEndedPayload{LoginPath: surface.Path, Reason: "logout"}))
	c.navigator.Navigate(ctx, surface)
}

// Halted reports whether the client has navigated to login and is waiting for a new
// sign-in.
func (c *Client) Halted() bool {
	_, halted := c.state()
	return halted
}
