package printing

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceTemplateRepository defines the interface for template persistence
type InvoiceTemplateRepository interface {
	// FindByIDForUser finds a template owned by userID
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*InvoiceTemplate, error)

	// FindAllForUser lists the user's templates, default first
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]InvoiceTemplate, error)

	// CountForUser counts the user's templates
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)

	// FindDefault returns the user's default template, or shared.ErrNotFound
	FindDefault(ctx context.Context, userID uuid.UUID) (*InvoiceTemplate, error)

	// Save creates or updates a template
	Save(ctx context.Context, template *InvoiceTemplate) error

	// SetDefault clears the default flag on every template of the user and
	// sets it on template, atomically
	SetDefault(ctx context.Context, template *InvoiceTemplate) error

	// DeleteForUser deletes a template owned by userID
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}
