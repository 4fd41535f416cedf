package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for account persistence
type UserRepository interface {
	// Create inserts the user and its profile together
	Create(ctx context.Context, user *User, profile *Profile) error

	// Update saves credential changes and sign-in stamps
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindProfile returns the profile of userID
	FindProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// SaveProfile updates a profile
	SaveProfile(ctx context.Context, profile *Profile) error
}

// RoleLookup resolves the role of a user
type RoleLookup interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (Role, error)
}
