package subscription

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for subscription persistence
type Repository interface {
	// FindByUser returns the user's subscription, or shared.ErrNotFound
	FindByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error)

	// FindByStatus lists subscriptions with the given stored status, oldest first
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Subscription, error)

	// CountByStatus counts subscriptions with the given stored status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// Save creates or updates a subscription; one row per user
	Save(ctx context.Context, subscription *Subscription) error
}
