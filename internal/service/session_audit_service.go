package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/events"
)

const defaultAuditCapacity = 50

// SessionAuditService records session lifecycle events published by the API client.
type SessionAuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu       sync.Mutex
	capacity int
	recent   []events.Event
}

// NewSessionAuditService creates the service. capacity bounds the retained history.
func NewSessionAuditService(dispatcher events.Dispatcher, logger *zap.Logger, capacity int) *SessionAuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &SessionAuditService{dispatcher: dispatcher, logger: logger, capacity: capacity}
}

// RegisterHandlers subscribes to events.
func (s *SessionAuditService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventSessionStarted, s.handleSessionStarted)
	s.dispatcher.Subscribe(events.EventSessionEnded, s.handleSessionEnded)
	s.dispatcher.Subscribe(events.EventSessionExpired, s.handleSessionEnded)
	s.dispatcher.Subscribe(events.EventCredentialMissing, s.handleSessionEnded)
}

func (s *SessionAuditService) handleSessionStarted(_ context.Context, event events.Event) error {
	s.logger.Info("SessionStarted", zap.String("profile", string(event.Profile)), zap.Any("payload", event.Payload))
	s.remember(event)
	return nil
}

func (s *SessionAuditService) handleSessionEnded(_ context.Context, event events.Event) error {
	s.logger.Info("SessionEnded",
		zap.String("type", string(event.Type)),
		zap.String("profile", string(event.Profile)),
		zap.Any("payload", event.Payload))
	s.remember(event)
	return nil
}

func (s *SessionAuditService) remember(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append(s.recent, event)
	if over := len(s.recent) - s.capacity; over > 0 {
		s.recent = append([]events.Event(nil), s.recent[over:]...)
	}
}

// Recent returns retained events, oldest first.
func (s *SessionAuditService) Recent() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event(nil), s.recent...)
}
