package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/observability"
	"github.com/spec-kit/workforce-console/internal/session"
)

type pushed struct {
	Message string
	Level   domain.Level
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []pushed
}

func (n *recordingNotifier) Push(message string, level domain.Level) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, pushed{Message: message, Level: level})
}

func (n *recordingNotifier) all() []pushed {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]pushed(nil), n.items...)
}

func (n *recordingNotifier) count(message string) int {
	c := 0
	for _, p := range n.all() {
		if p.Message == message {
			c++
		}
	}
	return c
}

type recordingNavigator struct {
	mu       sync.Mutex
	surfaces []domain.LoginSurface
}

func (n *recordingNavigator) Navigate(_ context.Context, s domain.LoginSurface) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.surfaces = append(n.surfaces, s)
}

func (n *recordingNavigator) calls() []domain.LoginSurface {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.LoginSurface(nil), n.surfaces...)
}

// countingDoer counts calls and delegates to fn.
type countingDoer struct {
	calls atomic.Int32
	fn    func(*http.Request) (*http.Response, error)
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	if d.fn == nil {
		return nil, errors.New("unexpected call")
	}
	return d.fn(req)
}

type harness struct {
	client    *Client
	store     *session.Store
	notifier  *recordingNotifier
	navigator *recordingNavigator
	metrics   *observability.Metrics
}

func newHarness(t *testing.T, baseURL string, doer Doer, mutate ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		store:     session.NewStore(session.NewMemoryBackend(), session.NewMemoryBackend(), nil),
		notifier:  &recordingNotifier{},
		navigator: &recordingNavigator{},
		metrics:   observability.NewMetrics(),
	}
	opts := Options{BaseURL: baseURL, HTTPClient: doer, Metrics: h.metrics}
	for _, m := range mutate {
		m(&opts)
	}
	h.client = New(h.store, h.notifier, h.navigator, opts)
	t.Cleanup(func() { _ = h.store.Close() })
	return h
}

func newServerHarness(t *testing.T, handler http.HandlerFunc, mutate ...func(*Options)) (*harness, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newHarness(t, srv.URL, srv.Client(), mutate...), srv
}

func (h *harness) signIn(t *testing.T, p domain.Profile, token string) {
	t.Helper()
	require.NoError(t, h.store.SaveLogin(context.Background(), p, token, domain.Identity{
		Name:  string(p),
		Email: string(p) + "@example.com",
		Role:  p.Role(),
	}))
}

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)
