package service

import (
	"sync"
	"time"

	"github.com/spec-kit/workforce-console/internal/domain"
)

const defaultActivityCapacity = 50

// ActivityLog keeps the most recent console actions in memory, newest first.
type ActivityLog struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	entries  []domain.ActivityEntry
}

func NewActivityLog(capacity int) *ActivityLog {
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityLog{capacity: capacity}
}

// Record prepends an entry, dropping the oldest beyond capacity.
func (l *ActivityLog) Record(actorID int64, role, action string, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	entry := domain.ActivityEntry{ID: l.nextID, ActorID: actorID, Role: role, Action: action, Timestamp: at}
	l.entries = append([]domain.ActivityEntry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

func (l *ActivityLog) Recent() []domain.ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.ActivityEntry{}, l.entries...)
}

// Clear drops every entry and reports how many there were.
func (l *ActivityLog) Clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.entries)
	l.entries = nil
	return n
}
