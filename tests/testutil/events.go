package testutil

import (
	"context"
	"sync"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// eventLog is a concurrency-safe list of events with an optional error to
// hand back to the caller that recorded them.
type eventLog struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func (l *eventLog) record(events ...shared.DomainEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
	return l.err
}

// SetError makes every later call fail with err.
func (l *eventLog) SetError(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

// Events returns a snapshot of what was recorded.
func (l *eventLog) Events() []shared.DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]shared.DomainEvent(nil), l.events...)
}

// Types returns the recorded event types in order.
func (l *eventLog) Types() []string {
	var types []string
	for _, e := range l.Events() {
		types = append(types, e.EventType())
	}
	return types
}

// RecordingPublisher is a shared.EventPublisher for service tests.
type RecordingPublisher struct{ eventLog }

func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	return p.record(events...)
}

// RecordingHandler is a shared.EventHandler for bus tests.
type RecordingHandler struct {
	eventLog
	types []string
}

// NewRecordingHandler subscribes to types.
func NewRecordingHandler(types ...string) *RecordingHandler {
	return &RecordingHandler{types: types}
}

func (h *RecordingHandler) EventTypes() []string { return h.types }

func (h *RecordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	return h.record(e)
}

// Count is the number of events handled so far.
func (h *RecordingHandler) Count() int { return len(h.Events()) }

// StubEvent is an event with no payload, owned by a random user.
type StubEvent struct {
	shared.BaseDomainEvent
}

func NewStubEvent(eventType string) *StubEvent {
	return &StubEvent{shared.NewBaseDomainEvent(eventType, "Stub", uuid.New(), uuid.New())}
}
