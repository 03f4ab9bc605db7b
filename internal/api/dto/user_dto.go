package dto

import (
	"time"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// LoginRequest payload for both login surfaces.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is what the console stores after signing in.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        domain.Identity `json:"user"`
}

// CreateUserRequest payload for POST /api/admin/create-user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// CreateUserResponse acknowledges a created user.
type CreateUserResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// UsersResponse lists workforce users with paging metadata.
type UsersResponse struct {
	Users []domain.WorkforceUser `json:"users"`
	Meta  PageMeta               `json:"meta"`
}

// PageMeta echoes the paging window.
type PageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// StatsResponse wraps dashboard stats.
type StatsResponse struct {
	Stats domain.DashboardStats `json:"stats"`
}

// AdminsResponse lists admin accounts.
type AdminsResponse struct {
	Admins []domain.AdminSummary `json:"admins"`
}

// StatusResponse reports a toggled active flag.
type StatusResponse struct {
	Message  string `json:"message"`
	IsActive bool   `json:"is_active"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ActivityResponse lists recent console actions.
type ActivityResponse struct {
	Logs []domain.ActivityEntry `json:"logs"`
}
