package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-reportdraft-be/internal/pkg/logger"
	"ai-reportdraft-be/pkg/events"
)

// WorkflowEventsTopic is the in-process bus topic all workflow events
// travel on before fanning out to NATS and websocket subscribers.
const WorkflowEventsTopic = "workflow.events"

type workflowEventEnvelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, log logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub: pubSub,
		logger: log,
	}
}

func (ps *publisherService) Publish(ctx context.Context, event events.Event) error {
	envelope := workflowEventEnvelope{
		Type:       event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.pubSub.Publish(WorkflowEventsTopic, msg); err != nil {
		return err
	}

	ps.logger.Debug("publisher_service", "workflow event published", map[string]interface{}{
		"type": event.EventType(),
	})
	return nil
}
