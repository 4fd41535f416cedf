package cache

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// DefaultRoleTTL is how long a resolved role is trusted
const DefaultRoleTTL = 10 * time.Minute

// RoleCache resolves roles through next and remembers them for ttl.
// Sign-out and role changes must call Evict.
type RoleCache struct {
	next  identity.RoleLookup
	store Store
	ttl   time.Duration
}

// NewRoleCache creates a role cache in front of next
func NewRoleCache(next identity.RoleLookup, store Store, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &RoleCache{next: next, store: store, ttl: ttl}
}

func roleKey(userID uuid.UUID) string {
	return "role:" + userID.String()
}

// RoleOf returns the cached role or loads it
func (c *RoleCache) RoleOf(ctx context.Context, userID uuid.UUID) (identity.Role, error) {
	if raw, ok, err := c.store.Get(ctx, roleKey(userID)); err == nil && ok {
		if role := identity.Role(raw); role.IsValid() {
			return role, nil
		}
	}

	role, err := c.next.RoleOf(ctx, userID)
	if err != nil {
		return "", err
	}
	// a failed write only costs a lookup next time
	_ = c.store.Set(ctx, roleKey(userID), []byte(role), c.ttl)
	return role, nil
}

// Evict forgets the role of userID
func (c *RoleCache) Evict(ctx context.Context, userID uuid.UUID) error {
	return c.store.Delete(ctx, roleKey(userID))
}

var _ identity.RoleLookup = (*RoleCache)(nil)
