package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nvdow/volunteerfinder/internal/config"
	"github.com/nvdow/volunteerfinder/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventVolunteerScheduled, n.handleVolunteerScheduled)
	n.dispatcher.Subscribe(events.EventWeekReset, n.handleWeekReset)
	n.dispatcher.Subscribe(events.EventRosterLoaded, n.handleRosterLoaded)
}

func (n *NotificationService) handleVolunteerScheduled(ctx context.Context, event events.Event) error {
	n.logger.Info("VolunteerScheduled", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWeekReset(ctx context.Context, event events.Event) error {
	n.logger.Info("WeekReset", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRosterLoaded(ctx context.Context, event events.Event) error {
	n.logger.Info("RosterLoaded", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
