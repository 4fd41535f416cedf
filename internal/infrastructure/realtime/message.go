// Package realtime pushes domain events to connected browsers over SSE,
// fanned out across instances through Redis pub/sub.
package realtime

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/facturo/backend/internal/domain/catalog"
	"github.com/facturo/backend/internal/domain/chat"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// Message is one notification as sent on the wire
type Message struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	UserID     uuid.UUID       `json:"user_id"`
	Admin      bool            `json:"admin,omitempty"` // also delivered to every admin
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type route struct {
	name  string
	admin bool
}

// routes maps forwarded domain events to their wire names
var routes = map[string]route{
	invoicing.EventTypeInvoiceCreated:           {name: "invoice.created"},
	invoicing.EventTypeInvoiceStatusChanged:     {name: "invoice.status_changed"},
	invoicing.EventTypeInvoiceDeleted:           {name: "invoice.deleted"},
	invoicing.EventTypeQuoteCreated:             {name: "quote.created"},
	invoicing.EventTypeDeliveryNoteCreated:      {name: "delivery_note.created"},
	partner.EventTypeClientCreated:              {name: "client.created"},
	partner.EventTypeClientUpdated:              {name: "client.updated"},
	partner.EventTypeClientDeleted:              {name: "client.deleted"},
	partner.EventTypeSupplierCreated:            {name: "supplier.created"},
	partner.EventTypeSupplierUpdated:            {name: "supplier.updated"},
	partner.EventTypeSupplierDeleted:            {name: "supplier.deleted"},
	catalog.EventTypeProductCreated:             {name: "product.created"},
	catalog.EventTypeProductUpdated:             {name: "product.updated"},
	catalog.EventTypeProductDeleted:             {name: "product.deleted"},
	chat.EventTypeMessageSent:                   {name: "chat.message_created", admin: true},
	subscription.EventTypeSubscriptionSubmitted: {name: "subscription.submitted", admin: true},
	subscription.EventTypeSubscriptionApproved:  {name: "subscription.approved"},
	subscription.EventTypeSubscriptionRejected:  {name: "subscription.rejected"},
}

// ForwardedEventTypes lists the domain event types that reach browsers
func ForwardedEventTypes() []string {
	types := make([]string, 0, len(routes))
	for t := range routes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// FromEvent converts a domain event. ok is false for events that are not
// forwarded.
func FromEvent(event shared.DomainEvent) (msg Message, ok bool, err error) {
	r, ok := routes[event.EventType()]
	if !ok {
		return Message{}, false, nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, true, fmt.Errorf("failed to encode %s: %w", event.EventType(), err)
	}
	return Message{
		ID:         event.EventID(),
		Type:       r.name,
		UserID:     event.UserID(),
		Admin:      r.admin,
		OccurredAt: event.OccurredAt(),
		Payload:    payload,
	}, true, nil
}

// Encode serializes a message for the bridge channel
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode parses a message received from the bridge channel
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to decode realtime message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("realtime message has no type")
	}
	return msg, nil
}
