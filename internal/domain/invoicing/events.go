package invoicing

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice      = "Invoice"
	AggregateTypeQuote        = "Quote"
	AggregateTypeDeliveryNote = "DeliveryNote"
)

// Event type constants
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
	EventTypeInvoiceDeleted       = "InvoiceDeleted"
	EventTypeQuoteCreated         = "QuoteCreated"
	EventTypeDeliveryNoteCreated  = "DeliveryNoteCreated"
)

// InvoiceCreatedEvent is raised once an invoice and its lines are committed
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Number      string          `json:"number"`
	ClientID    uuid.UUID       `json:"client_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.UserID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoiceStatusChangedEvent is raised when the status of an invoice changes
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, from Status) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID, inv.UserID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		From:            from,
		To:              inv.Status,
	}
}

// InvoiceDeletedEvent is raised after an invoice was removed
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(inv *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, inv.ID, inv.UserID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
	}
}

// DerivedDocumentCreatedEvent is raised when a quote or delivery note is generated
type DerivedDocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID    uuid.UUID `json:"document_id"`
	Number        string    `json:"number"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// NewDerivedDocumentCreatedEvent creates a new DerivedDocumentCreatedEvent
func NewDerivedDocumentCreatedEvent(eventType, aggType string, docID, userID uuid.UUID, source *Invoice, number string) *DerivedDocumentCreatedEvent {
	return &DerivedDocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, docID, userID),
		DocumentID:      docID,
		Number:          number,
		InvoiceID:       source.ID,
		InvoiceNumber:   source.Number,
	}
}
