package shared

import "context"

// EventHandler consumes domain events delivered by the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. Empty means
	// every event.
	EventTypes() []string
}

// EventPublisher is the sending half of the bus.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the receiving half of the bus.
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types, or for
	// all events when none are given
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a previously registered handler
	Unsubscribe(handler EventHandler)
}

// EventBus carries document lifecycle events between the application
// services and their subscribers.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
