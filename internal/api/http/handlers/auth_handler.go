package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-console/internal/api/dto"
	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/service"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

// AuthHandler exposes the two login surfaces.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// AdminLogin handles POST /api/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	return h.login(c, domain.RoleAdmin)
}

// SuperAdminLogin handles POST /api/superadmin/login.
func (h *AuthHandler) SuperAdminLogin(c *fiber.Ctx) error {
	return h.login(c, domain.RoleSuperAdmin)
}

func (h *AuthHandler) login(c *fiber.Ctx, role string) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res, err := h.auth.Login(c.UserContext(), role, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(dto.LoginResponse{
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt,
		User:        res.Account.Identity(),
	})
}
