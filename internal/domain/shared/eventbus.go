package shared

import "context"

// EventPublisher publishes domain events after a successful commit.
// Publication failures are logged by the implementation, not propagated
// into the originating transaction.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler processes domain events delivered by a bus
type EventHandler interface {
	// Handle processes a single event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler subscribes to
	EventTypes() []string
}

// EventBus combines publication with handler registration
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}
