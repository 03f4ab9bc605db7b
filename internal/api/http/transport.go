package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Transport serves requests through the app in process, without a listener. It satisfies
// the API client's Doer so the console can run against an embedded backend.
type Transport struct {
	app *fiber.App
}

// NewTransport wraps app.
func NewTransport(app *fiber.App) *Transport {
	return &Transport{app: app}
}

// Do executes req against the app. A timeout of -1 leaves deadlines to req's context.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	return t.app.Test(req, -1)
}
