package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-console/internal/api/dto"
	"github.com/spec-kit/workforce-console/internal/auth"
	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/repository"
	"github.com/spec-kit/workforce-console/internal/service"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

const (
	defaultPerPage = 25
	maxPerPage     = 200
)

// AdminHandler serves the standard admin console.
type AdminHandler struct {
	console *service.ConsoleService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(console *service.ConsoleService) *AdminHandler {
	return &AdminHandler{console: console}
}

// DashboardStats handles GET /api/admin/dashboard-stats.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	admin, err := currentAccount(c)
	if err != nil {
		return err
	}
	stats, err := h.console.DashboardStats(c.UserContext(), admin)
	if err != nil {
		return err
	}
	return c.JSON(dto.StatsResponse{Stats: stats})
}

// ListUsers handles GET /api/admin/users?page=&per_page=&search=&status=.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	admin, err := currentAccount(c)
	if err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	filter := repository.UserFilter{
		Search: c.Query("search"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
	switch c.Query("status", "all") {
	case "active":
		active := true
		filter.Active = &active
	case "inactive":
		active := false
		filter.Active = &active
	case "all":
	default:
		return apperrors.NewValidationError("status must be all, active or inactive", nil)
	}

	users, err := h.console.ListUsers(c.UserContext(), admin.ID, filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.UsersResponse{Users: users, Meta: dto.PageMeta{Page: page, PerPage: perPage}})
}

// CreateUser handles POST /api/admin/create-user.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	admin, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.console.CreateUser(c.UserContext(), admin, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateUserResponse{Message: "User created", UserID: user.ID})
}

// ToggleUserStatus handles PUT /api/admin/user/:id/status.
func (h *AdminHandler) ToggleUserStatus(c *fiber.Ctx) error {
	admin, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	active, err := h.console.ToggleUser(c.UserContext(), admin.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Message: statusMessage("User", active), IsActive: active})
}

// DeleteUser handles DELETE /api/admin/delete-user/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	admin, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.console.DeleteUser(c.UserContext(), admin.ID, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

func currentAccount(c *fiber.Ctx) (*domain.Admin, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Account, nil
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func statusMessage(subject string, active bool) string {
	if active {
		return subject + " unblocked successfully"
	}
	return subject + " blocked successfully"
}
