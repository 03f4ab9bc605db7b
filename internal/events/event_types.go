package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted    EventType = "session_started"
	EventSessionEnded      EventType = "session_ended"
	EventSessionExpired    EventType = "session_expired"
	EventCredentialMissing EventType = "credential_missing"
)

// Event represents a session lifecycle change emitted by the API client.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Profile   domain.Profile `json:"profile,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   interface{}    `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(t EventType, profile domain.Profile, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Profile:   profile,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionStartedPayload payload.
type SessionStartedPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionEndedPayload payload.
type SessionEndedPayload struct {
	LoginPath string `json:"login_path"`
	Reason    string `json:"reason"`
}
