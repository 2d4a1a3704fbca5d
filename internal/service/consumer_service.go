package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ai-reportdraft-be/internal/websocket"
	"ai-reportdraft-be/pkg/events"
	pkgNats "ai-reportdraft-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process workflow event bus and fans
// each event out to the websocket hub and, when configured, NATS.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	hub            *websocket.Hub
	eventPublisher *pkgNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	eventPublisher *pkgNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		hub:            hub,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope workflowEventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal workflow event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Websocket delivery is keyed on the session the event belongs to.
	if cs.hub != nil {
		if sid, ok := sessionIDFromPayload(envelope.Payload); ok {
			cs.hub.Broadcast(sid, msg.Payload)
		} else {
			log.Printf("[WARN] Workflow event %s carries no session_id, skipping websocket fanout", envelope.Type)
		}
	}

	// External bus is auxiliary. Failures never block the stream.
	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type:       envelope.Type,
			Data:       envelope.Payload,
			OccurredAt: envelope.OccurredAt,
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to forward %s event to NATS: %v", envelope.Type, err)
		}
	}

	msg.Ack()
}

func sessionIDFromPayload(payload map[string]interface{}) (uuid.UUID, bool) {
	raw, ok := payload["session_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	sid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return sid, true
}
