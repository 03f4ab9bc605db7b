package domain

import "time"

// Admin is an account that signs in to the console, either as admin or super admin.
type Admin struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	UserLimit    *int
	Active       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// Identity returns the display snapshot handed to the console on login.
func (a *Admin) Identity() Identity {
	return Identity{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role, UserLimit: a.UserLimit}
}

// AdminSummary is the row a super admin sees when listing accounts.
type AdminSummary struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	UserLimit *int       `json:"user_limit"`
	UserCount int        `json:"user_count"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}
