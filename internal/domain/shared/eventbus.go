package shared

import "context"

// EventHandler reacts to domain events. An empty EventTypes subscribes to
// every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services depend on.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus dispatches published events to subscribed handlers. Subscribe
// without explicit types uses the handler's own EventTypes.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// NoopEventPublisher drops every event.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, ...DomainEvent) error { return nil }
