package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-console/internal/api/http/handlers"
	"github.com/spec-kit/workforce-console/internal/auth"
	"github.com/spec-kit/workforce-console/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	SuperAdmin     *handlers.SuperAdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Login routes are registered before the protected
// groups so the group middleware never runs for them.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/admin/login", cfg.Auth.AdminLogin)
	api.Post("/superadmin/login", cfg.Auth.SuperAdminLogin)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/dashboard-stats", cfg.Admin.DashboardStats)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/create-user", cfg.Admin.CreateUser)
	admin.Put("/user/:id/status", cfg.Admin.ToggleUserStatus)
	admin.Delete("/delete-user/:id", cfg.Admin.DeleteUser)

	super := api.Group("/superadmin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSuperAdmin))
	super.Get("/admins", cfg.SuperAdmin.ListAdmins)
	super.Put("/admin/:id/status", cfg.SuperAdmin.ToggleAdminStatus)
	super.Get("/logs", cfg.SuperAdmin.ListLogs)
	super.Delete("/logs", cfg.SuperAdmin.ClearLogs)
}
