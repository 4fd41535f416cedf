package company

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for company profile persistence
type ProfileRepository interface {
	// FindByUser returns the user's profile, or shared.ErrNotFound
	FindByUser(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// Upsert inserts or replaces the profile keyed by its user
	Upsert(ctx context.Context, profile *Profile) error
}
