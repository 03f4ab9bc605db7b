package apiclient

import (
	"context"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// Navigator sends the user to a login surface. It is the terminal step of a teardown.
type Navigator interface {
	Navigate(ctx context.Context, surface domain.LoginSurface)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, surface domain.LoginSurface)

func (f NavigatorFunc) Navigate(ctx context.Context, surface domain.LoginSurface) {
	f(ctx, surface)
}
