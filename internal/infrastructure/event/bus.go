// Package event dispatches domain events, after commit, to the handlers
// registered in the process: the realtime forwarder and metrics.
package event

import (
	"context"
	"slices"
	"sync"

	"github.com/facturo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// HandlerFunc adapts a function to shared.EventHandler. It receives every
// event unless types are given at Subscribe.
type HandlerFunc func(ctx context.Context, event shared.DomainEvent) error

// Handle implements shared.EventHandler
func (f HandlerFunc) Handle(ctx context.Context, event shared.DomainEvent) error {
	return f(ctx, event)
}

// EventTypes implements shared.EventHandler
func (f HandlerFunc) EventTypes() []string { return nil }

type subscription struct {
	handler shared.EventHandler
	types   []string // empty means every event
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// LocalBus implements shared.EventBus with synchronous in-process dispatch.
// A failing or panicking handler is logged and does not stop the others.
type LocalBus struct {
	mu     sync.RWMutex
	subs   []*subscription
	logger *zap.Logger
}

// NewLocalBus creates an empty bus
func NewLocalBus(logger *zap.Logger) *LocalBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalBus{logger: logger}
}

// Publish dispatches events in order to every interested handler
func (b *LocalBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, event := range events {
		for _, sub := range subs {
			if !sub.wants(event.EventType()) {
				continue
			}
			if err := b.dispatch(ctx, sub.handler, event); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for the handler's own
// EventTypes when none are given. No types at all means every event.
func (b *LocalBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	b.subs = append(b.subs, &subscription{handler: handler, types: eventTypes})
	b.mu.Unlock()
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes every registration of handler. Handlers are compared
// by identity, so HandlerFunc values cannot be unsubscribed.
func (b *LocalBus) Unsubscribe(handler shared.EventHandler) {
	if _, ok := handler.(HandlerFunc); ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(s *subscription) bool {
		return s.handler == handler
	})
}

// Start implements shared.EventBus; dispatch needs no background work
func (b *LocalBus) Start(context.Context) error {
	b.logger.Info("event bus started")
	return nil
}

// Stop implements shared.EventBus
func (b *LocalBus) Stop(context.Context) error {
	b.logger.Info("event bus stopped")
	return nil
}

func (b *LocalBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r))
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*LocalBus)(nil)
