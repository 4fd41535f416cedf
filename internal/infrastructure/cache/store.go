// Package cache provides the key-value stores behind list caching and the
// role cache, backed by Redis or by process memory.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key-value store with per-key expiry
type Store interface {
	// Get returns the value of key; ok is false when the key is missing or expired
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error

	Close() error
}
