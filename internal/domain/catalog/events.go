package catalog

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeProduct is the aggregate type of catalog entries
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeProductUpdated = "ProductUpdated"
	EventTypeProductDeleted = "ProductDeleted"
)

// ProductChangedEvent is published when a catalog entry changes
type ProductChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Type      ProductType     `json:"product_type"`
}

// NewProductChangedEvent creates a new ProductChangedEvent
func NewProductChangedEvent(eventType string, p *Product) *ProductChangedEvent {
	return &ProductChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProduct, p.ID, p.UserID),
		ProductID:       p.ID,
		Name:            p.Name,
		Price:           p.Price,
		Type:            p.Type,
	}
}
