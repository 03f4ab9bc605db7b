// Package console holds the managers behind each console view. Managers fetch through the
// API client, hand rows to a Renderer and relay actions back to the backend. A nil
// response from the client means the session is gone and the manager stops quietly.
package console

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/domain"
)

// Requester is the part of the API client the managers use.
type Requester interface {
	Request(ctx context.Context, path string, opts *apiclient.RequestOptions) *apiclient.Response
	Notify(message string, level domain.Level)
}

// Table is a rendered grid of strings.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Card is one headline figure.
type Card struct {
	Label string
	Value string
}

// Renderer draws views. Managers never know how.
type Renderer interface {
	RenderTable(t Table)
	RenderCards(cards []Card)
}

// failed reports whether resp ended the action, notifying the backend's message for
// non-2xx responses the client passed through. 403 and 5xx were already notified.
func failed(r Requester, resp *apiclient.Response, fallback string) bool {
	if resp == nil {
		return true
	}
	if resp.OK() {
		return false
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode >= http.StatusInternalServerError {
		return true
	}
	msg := resp.ErrorMessage()
	if msg == "" {
		msg = fallback
	}
	r.Notify(msg, domain.LevelError)
	return true
}

func decode(r Requester, resp *apiclient.Response, v any) bool {
	if err := resp.Decode(v); err != nil {
		r.Notify("Unexpected response from server", domain.LevelError)
		return false
	}
	return true
}

func setPositive(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setNonEmpty(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}
