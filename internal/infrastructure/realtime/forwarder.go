package realtime

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Forwarder is the event bus handler that turns domain events into
// realtime messages
type Forwarder struct {
	out    Fanout
	logger *zap.Logger
}

// NewForwarder creates a forwarder writing to out: the local hub on a single
// instance, the Redis bridge otherwise
func NewForwarder(out Fanout, logger *zap.Logger) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{out: out, logger: logger}
}

// Handle implements shared.EventHandler
func (f *Forwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg, ok, err := FromEvent(event)
	if !ok || err != nil {
		return err
	}
	return f.out.Broadcast(ctx, msg)
}

// EventTypes implements shared.EventHandler
func (f *Forwarder) EventTypes() []string {
	return ForwardedEventTypes()
}

var _ shared.EventHandler = (*Forwarder)(nil)
