package domain

import "time"

// WorkforceUser is a field employee tracked by the mobile app and managed by an admin.
type WorkforceUser struct {
	ID           int64      `json:"id"`
	AdminID      int64      `json:"admin_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone,omitempty"`
	IsActive     bool       `json:"is_active"`
	LastSyncAt   *time.Time `json:"last_sync,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DashboardStats summarises an admin's workforce. RemainingSlots is nil when the admin
// has no user limit.
type DashboardStats struct {
	TotalUsers     int     `json:"total_users"`
	ActiveUsers    int     `json:"active_users"`
	UsersWithSync  int     `json:"users_with_sync"`
	UserLimit      *int    `json:"user_limit"`
	RemainingSlots *int    `json:"remaining_slots"`
	SyncRate       float64 `json:"sync_rate"`
}
