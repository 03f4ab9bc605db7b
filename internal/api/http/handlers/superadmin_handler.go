package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-console/internal/api/dto"
	"github.com/spec-kit/workforce-console/internal/service"
)

// SuperAdminHandler serves the super admin console.
type SuperAdminHandler struct {
	console *service.ConsoleService
}

// NewSuperAdminHandler constructs handler.
func NewSuperAdminHandler(console *service.ConsoleService) *SuperAdminHandler {
	return &SuperAdminHandler{console: console}
}

// ListAdmins handles GET /api/superadmin/admins.
func (h *SuperAdminHandler) ListAdmins(c *fiber.Ctx) error {
	admins, err := h.console.ListAdmins(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminsResponse{Admins: admins})
}

// ToggleAdminStatus handles PUT /api/superadmin/admin/:id/status.
func (h *SuperAdminHandler) ToggleAdminStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	active, err := h.console.ToggleAdmin(c.UserContext(), actor.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Message: statusMessage("Admin", active), IsActive: active})
}

// ListLogs handles GET /api/superadmin/logs.
func (h *SuperAdminHandler) ListLogs(c *fiber.Ctx) error {
	logs, err := h.console.ActivityLogs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ActivityResponse{Logs: logs})
}

// ClearLogs handles DELETE /api/superadmin/logs.
func (h *SuperAdminHandler) ClearLogs(c *fiber.Ctx) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	n := h.console.ClearActivity(actor.ID)
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Deleted %d logs", n)})
}
