package service

import (
	"context"

	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/events"
	pktNats "ai-pdfstudy-be/pkg/nats"
)

const auditDurable = "pdfstudy-audit"

// EventSubscriber registers a handler for events matching a subject pattern.
type EventSubscriber interface {
	Subscribe(ctx context.Context, pattern, durableName string, handler pktNats.EventHandler) error
}

type IAuditService interface {
	Start(ctx context.Context) error
	Record(ctx context.Context, event events.Event) error
}

// auditService copies every domain event into the audit log.
type auditService struct {
	subscriber EventSubscriber
	auditLog   logger.ILogger
}

func NewAuditService(subscriber EventSubscriber, auditLog logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		auditLog:   auditLog,
	}
}

func (s *auditService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, pktNats.Subject(">"), auditDurable, s.Record)
}

func (s *auditService) Record(_ context.Context, event events.Event) error {
	details := map[string]interface{}{
		"type":       event.EventType(),
		"occurredAt": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	s.auditLog.Info("AUDIT", event.EventType(), details)
	return nil
}
