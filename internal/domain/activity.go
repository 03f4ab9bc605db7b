package domain

import "time"

// ActivityEntry is one console action shown in the super admin activity feed.
type ActivityEntry struct {
	ID        int64     `json:"id"`
	ActorID   int64     `json:"-"`
	ActorName string    `json:"admin_name"`
	Action    string    `json:"action_type"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}
