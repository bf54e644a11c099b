package worker

import (
	"go.uber.org/zap"

	"github.com/civicdesk/issue-service/internal/config"
	"github.com/civicdesk/issue-service/internal/events"
	"github.com/civicdesk/issue-service/internal/service"
)

// StartNotificationWorker subscribes reporter and department notifications to dispatcher.
// It returns nil when there is no dispatcher to listen on.
func StartNotificationWorker(dispatcher events.Dispatcher, reports service.ReportLookup, logger *zap.Logger, cfg config.NotificationConfig) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, reports, logger, cfg)
	notifications.RegisterHandlers()
	logger.Info("notification worker started",
		zap.Bool("webhook", cfg.WebhookURL != ""),
		zap.Duration("timeout", cfg.Timeout()))
	return notifications
}
