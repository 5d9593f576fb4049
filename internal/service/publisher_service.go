package service

import (
	"context"
	"encoding/json"

	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/rag/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishIndexJob(ctx context.Context, job session.IndexJob) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

var _ session.JobPublisher = &publisherService{}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) Publish(_ context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.publisher.Publish(ps.topicName, msg)
}

func (ps *publisherService) PublishIndexJob(ctx context.Context, job session.IndexJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return ps.Publish(ctx, payload)
}

// publishEvent sends a domain event; delivery failures are logged only.
func publishEvent(ctx context.Context, publisher events.Publisher, log logger.ILogger, evt events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, evt); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
