package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultListTTL bounds how long a cached page may outlive a missed invalidation
const DefaultListTTL = 5 * time.Minute

// ListCache implements shared.ListCache on a Store.
// Keys have the form list:{resource}:{user}:{query}.
type ListCache struct {
	store Store
	ttl   time.Duration
}

// NewListCache creates a list cache
func NewListCache(store Store, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{store: store, ttl: ttl}
}

func listPrefix(userID uuid.UUID, resource string) string {
	return "list:" + resource + ":" + userID.String() + ":"
}

// Get decodes the page cached under query into dest
func (c *ListCache) Get(ctx context.Context, userID uuid.UUID, resource, query string, dest any) (bool, error) {
	raw, ok, err := c.store.Get(ctx, listPrefix(userID, resource)+query)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// a stale layout is a miss
		_ = c.store.Delete(ctx, listPrefix(userID, resource)+query)
		return false, nil
	}
	return true, nil
}

// Set caches value under query
func (c *ListCache) Set(ctx context.Context, userID uuid.UUID, resource, query string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cached page: %w", err)
	}
	return c.store.Set(ctx, listPrefix(userID, resource)+query, raw, c.ttl)
}

// InvalidateResource drops every cached page of resource for userID
func (c *ListCache) InvalidateResource(ctx context.Context, userID uuid.UUID, resource string) error {
	return c.store.DeletePrefix(ctx, listPrefix(userID, resource))
}

var _ shared.ListCache = (*ListCache)(nil)
