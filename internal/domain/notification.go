package domain

import "time"

// Level controls how a notification is presented.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Normalize maps unknown levels onto info.
func (l Level) Normalize() Level {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return l
	default:
		return LevelInfo
	}
}

// Notification is one queued, self-expiring message.
type Notification struct {
	ID        string
	Message   string
	Level     Level
	CreatedAt time.Time
}
