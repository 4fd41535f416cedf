// Package common holds helpers shared by the application services.
package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QueryKey hashes a filter into a stable cache key
func QueryKey(filter shared.Filter) string {
	keys := make([]string, 0, len(filter.Filters))
	for k := range filter.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "p=%d|s=%d|o=%s|d=%s|q=%s", filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%v", k, filter.Filters[k])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:12])
}

// CachedPage serves a list page from cache, loading and storing it on a miss.
// Cache failures are logged and never fail the request.
func CachedPage[T any](
	ctx context.Context,
	cache shared.ListCache,
	logger *zap.Logger,
	userID uuid.UUID,
	resource string,
	filter shared.Filter,
	load func() (*shared.Paginated[T], error),
) (*shared.Paginated[T], error) {
	key := QueryKey(filter)

	var cached shared.Paginated[T]
	if ok, err := cache.Get(ctx, userID, resource, key, &cached); err != nil {
		logger.Warn("list cache read failed", zap.String("resource", resource), zap.Error(err))
	} else if ok {
		return &cached, nil
	}

	page, err := load()
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, userID, resource, key, page); err != nil {
		logger.Warn("list cache write failed", zap.String("resource", resource), zap.Error(err))
	}
	return page, nil
}

// Invalidate drops the cached pages of resources, logging failures
func Invalidate(ctx context.Context, cache shared.ListCache, logger *zap.Logger, userID uuid.UUID, resources ...string) {
	for _, resource := range resources {
		if err := cache.InvalidateResource(ctx, userID, resource); err != nil {
			logger.Warn("list cache invalidation failed",
				zap.String("resource", resource),
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}
}

// Publish publishes and clears the pending events of aggregates.
// Publishing happens after commit; failures are logged.
func Publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if publisher != nil {
			if err := publisher.Publish(ctx, events...); err != nil {
				logger.Error("failed to publish domain events", zap.Error(err))
			}
		}
		agg.ClearDomainEvents()
	}
}
