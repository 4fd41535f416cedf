package invoicing

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence.
// Filters understand the keys "status" (Status) and "client_id" (uuid.UUID);
// Search matches the invoice number.
type InvoiceRepository interface {
	// FindByIDForUser loads an invoice with its lines
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)

	// FindAllForUser lists invoices without their lines
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// CountForUser counts invoices matching the filter
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)

	// Create inserts the invoice header and all its lines
	Create(ctx context.Context, invoice *Invoice) error

	// Save updates the invoice header; lines and number are left untouched
	Save(ctx context.Context, invoice *Invoice) error

	// DeleteForUser deletes an invoice and its lines
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error

	// ListNumbers returns every issued number of the user starting with prefix
	ListNumbers(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error)
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Quote, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Quote, error)
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)
	Create(ctx context.Context, quote *Quote) error
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
	ListNumbers(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error)
}

// DeliveryNoteRepository defines the interface for delivery note persistence
type DeliveryNoteRepository interface {
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*DeliveryNote, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]DeliveryNote, error)
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)
	Create(ctx context.Context, note *DeliveryNote) error
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
	ListNumbers(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error)
}

// NumberAllocator hands out document numbers. Implementations must never
// return the same number twice for a (user, family, year), even to
// concurrent callers.
type NumberAllocator interface {
	Allocate(ctx context.Context, userID uuid.UUID, family Family, now time.Time) (string, error)

	// Resync raises the counter to the highest number already issued
	Resync(ctx context.Context, userID uuid.UUID, family Family, now time.Time) error
}

// ErrDuplicateNumber is returned by Create when the number is already taken
var ErrDuplicateNumber = shared.NewDomainError("DUPLICATE_NUMBER", "Document number already issued")
