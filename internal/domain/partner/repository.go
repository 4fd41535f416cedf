package partner

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByIDForUser finds a client owned by userID
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Client, error)

	// FindAllForUser lists clients; Search matches name, email and phone
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Client, error)

	// CountForUser counts clients matching the filter
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// DeleteForUser deletes a client owned by userID
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error

	// ExistsForUser checks if a client exists for userID
	ExistsForUser(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByIDForUser finds a supplier owned by userID
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Supplier, error)

	// FindAllForUser lists suppliers; Search matches name, contact person and email
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Supplier, error)

	// CountForUser counts suppliers matching the filter
	CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// DeleteForUser deletes a supplier owned by userID
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}
