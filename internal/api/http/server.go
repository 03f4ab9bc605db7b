package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/api/http/handlers"
	"github.com/spec-kit/workforce-console/internal/auth"
	"github.com/spec-kit/workforce-console/internal/config"
	"github.com/spec-kit/workforce-console/internal/observability"
	"github.com/spec-kit/workforce-console/internal/repository"
	"github.com/spec-kit/workforce-console/internal/service"
)

// ServerDeps carries everything the stub backend needs. Probes are checked by
// /health/ready; nil repositories fall back to an in-memory directory.
type ServerDeps struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Admins  repository.AdminRepository
	Users   repository.WorkforceUserRepository
	Probes  map[string]handlers.Pinger
	Timeout time.Duration
}

// NewServer builds the stub backend app and seeds the default accounts.
func NewServer(ctx context.Context, deps ServerDeps) (*fiber.App, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Admins == nil || deps.Users == nil {
		mem := repository.NewMemoryStore()
		deps.Admins, deps.Users = mem.Admins(), mem.Users()
	}

	authService := service.NewAuthService(deps.Config.Stub, deps.Admins, deps.Logger)
	if err := authService.Seed(ctx, service.SeedAccounts(deps.Config.Stub)); err != nil {
		return nil, fmt.Errorf("seed accounts: %w", err)
	}
	consoleService := service.NewConsoleService(deps.Admins, deps.Users, deps.Config.Stub.BcryptCost, deps.Logger)

	app := fiber.New(fiber.Config{
		AppName:               deps.Config.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Metrics, deps.Timeout)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(deps.Config.App.Name, deps.Config.App.Version, deps.Probes),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(consoleService),
		SuperAdmin:     handlers.NewSuperAdminHandler(consoleService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), deps.Admins),
	})
	return app, nil
}
