package service

import (
	"context"
	"fmt"

	"moodflix-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SelectionTopic is the in-process topic selection events travel on.
const SelectionTopic = "selection.logged"

// IEventPublisher publishes domain events. The NATS publisher satisfies it as well.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	publisher message.Publisher
	topic     string
}

func NewPublisherService(publisher message.Publisher, topic string) IEventPublisher {
	return &publisherService{publisher: publisher, topic: topic}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.EventType())
	return p.publisher.Publish(p.topic, msg)
}
