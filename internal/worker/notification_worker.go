package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// dispatcher. Handlers run synchronously inside Publish.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		types := make([]string, 0, len(events.AllTicketEvents))
		for _, t := range events.AllTicketEvents {
			types = append(types, string(t))
		}
		logger.Info("notification handlers registered", zap.Strings("events", types))
	}
}
