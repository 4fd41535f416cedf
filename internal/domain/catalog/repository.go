package catalog

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog persistence.
// Filters understand the key "product_type".
type ProductRepository interface {
	// FindByIDForUser finds a product owned by userID
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Product, error)

	// FindAllForUser lists products; Search matches name and description
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountForUser counts products matching the filter
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForUser deletes a product owned by userID
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}
