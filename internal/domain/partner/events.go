package partner

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeClient   = "Client"
	AggregateTypeSupplier = "Supplier"
)

// Event type constants
const (
	EventTypeClientCreated   = "ClientCreated"
	EventTypeClientUpdated   = "ClientUpdated"
	EventTypeClientDeleted   = "ClientDeleted"
	EventTypeSupplierCreated = "SupplierCreated"
	EventTypeSupplierUpdated = "SupplierUpdated"
	EventTypeSupplierDeleted = "SupplierDeleted"
)

// PartnerChangedEvent is published when a client or supplier is created, updated or deleted
type PartnerChangedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID `json:"partner_id"`
	Name      string    `json:"name"`
}

// NewPartnerChangedEvent creates a new PartnerChangedEvent
func NewPartnerChangedEvent(eventType, aggType string, id, userID uuid.UUID, name string) *PartnerChangedEvent {
	return &PartnerChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, id, userID),
		PartnerID:       id,
		Name:            name,
	}
}
