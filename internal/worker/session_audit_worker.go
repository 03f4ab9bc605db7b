package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/events"
	"github.com/spec-kit/workforce-console/internal/service"
)

// StartSessionAudit subscribes an audit trail to dispatcher and returns it. A nil
// dispatcher yields nil.
func StartSessionAudit(dispatcher events.Dispatcher, logger *zap.Logger, capacity int) *service.SessionAuditService {
	if dispatcher == nil {
		return nil
	}
	audit := service.NewSessionAuditService(dispatcher, logger, capacity)
	audit.RegisterHandlers()
	return audit
}
