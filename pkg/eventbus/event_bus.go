// Package eventbus publishes and consumes analysis events.
package eventbus

import (
	"context"

	"github.com/dukex/operion-analyzer/pkg/events"
)

// Event is anything published on the analysis topic.
type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	// Publish sends event on the analysis topic; key is the partition key.
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	// Handle registers the handler for one event type, replacing any previous one.
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives the decoded event as a pointer to its concrete type.
type EventHandler func(ctx context.Context, event Event) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
