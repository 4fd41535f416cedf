package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func TestListCache_RoundTripAndInvalidate(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	c := NewListCache(store, 0)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, c.Set(ctx, alice, shared.ResourceClients, "q1", page{Items: []string{"ACME"}, Total: 1}))
	require.NoError(t, c.Set(ctx, alice, shared.ResourceClients, "q2", page{Total: 0}))
	require.NoError(t, c.Set(ctx, alice, shared.ResourceInvoices, "q1", page{Total: 3}))
	require.NoError(t, c.Set(ctx, bob, shared.ResourceClients, "q1", page{Total: 9}))

	var got page
	ok, err := c.Get(ctx, alice, shared.ResourceClients, "q1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"ACME"}, got.Items)

	require.NoError(t, c.InvalidateResource(ctx, alice, shared.ResourceClients))

	ok, _ = c.Get(ctx, alice, shared.ResourceClients, "q1", &got)
	assert.False(t, ok)
	ok, _ = c.Get(ctx, alice, shared.ResourceClients, "q2", &got)
	assert.False(t, ok)
	ok, _ = c.Get(ctx, alice, shared.ResourceInvoices, "q1", &got)
	assert.True(t, ok, "other resources survive")
	ok, _ = c.Get(ctx, bob, shared.ResourceClients, "q1", &got)
	assert.True(t, ok, "other users survive")
}

func TestListCache_UndecodableEntryIsAMiss(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	c := NewListCache(store, 0)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Set(ctx, listPrefix(userID, shared.ResourceProducts)+"q", []byte("{broken"), 0))
	var got page
	ok, err := c.Get(ctx, userID, shared.ResourceProducts, "q", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.Size())
}

type countingLookup struct {
	calls int
	role  identity.Role
	err   error
}

func (l *countingLookup) RoleOf(context.Context, uuid.UUID) (identity.Role, error) {
	l.calls++
	return l.role, l.err
}

func TestRoleCache(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	userID := uuid.New()

	lookup := &countingLookup{role: identity.RoleAdmin}
	c := NewRoleCache(lookup, store, 0)

	for i := 0; i < 3; i++ {
		role, err := c.RoleOf(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, role)
	}
	assert.Equal(t, 1, lookup.calls)

	lookup.role = identity.RoleUser
	require.NoError(t, c.Evict(ctx, userID))
	role, err := c.RoleOf(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleUser, role)
	assert.Equal(t, 2, lookup.calls)
}

func TestRoleCache_ErrorsAreNotCached(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	lookup := &countingLookup{err: errors.New("db down")}
	c := NewRoleCache(lookup, store, 0)

	_, err := c.RoleOf(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Zero(t, store.Size())
}
