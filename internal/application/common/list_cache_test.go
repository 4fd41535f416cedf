package common

import (
	"context"
	"errors"
	"testing"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueryKey(t *testing.T) {
	a := shared.DefaultFilter()
	a.Filters["status"] = "paid"
	a.Filters["client_id"] = "c1"

	b := shared.DefaultFilter()
	b.Filters["client_id"] = "c1"
	b.Filters["status"] = "paid"

	assert.Equal(t, QueryKey(a), QueryKey(b), "filter order does not matter")
	assert.Len(t, QueryKey(a), 24)

	b.Page = 2
	assert.NotEqual(t, QueryKey(a), QueryKey(b))
}

type failingCache struct{ sets int }

func (c *failingCache) Get(context.Context, uuid.UUID, string, string, any) (bool, error) {
	return false, errors.New("unreachable")
}

func (c *failingCache) Set(context.Context, uuid.UUID, string, string, any) error {
	c.sets++
	return errors.New("unreachable")
}

func (c *failingCache) InvalidateResource(context.Context, uuid.UUID, string) error {
	return errors.New("unreachable")
}

func TestCachedPage_CacheFailuresDoNotFailTheRequest(t *testing.T) {
	c := &failingCache{}
	loads := 0
	page, err := CachedPage(context.Background(), c, zap.NewNop(), uuid.New(), shared.ResourceClients, shared.DefaultFilter(),
		func() (*shared.Paginated[string], error) {
			loads++
			p := shared.NewPaginated([]string{"a"}, 1, 1, 20)
			return &p, nil
		})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, c.sets)

	Invalidate(context.Background(), c, zap.NewNop(), uuid.New(), shared.ResourceClients)
}
