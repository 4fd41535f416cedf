package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/facturo/backend/internal/infrastructure/cache"
)

// TokenBlacklist invalidates JWTs before they expire, on sign-out or when
// every session of a user must end
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by JTI. ttl should be the token's
	// remaining lifetime.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted checks if a token's JTI has been revoked
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist revokes every token of userID issued up to now
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserTokenInvalidated reports whether a token issued at tokenIssuedAt
	// was revoked by AddUserTokensToBlacklist
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

// StoreTokenBlacklist keeps revocations in a cache.Store. Backed by Redis it
// is shared by every instance; backed by memory it is per process.
type StoreTokenBlacklist struct {
	store     cache.Store
	keyPrefix string
	now       func() time.Time
}

// NewStoreTokenBlacklist creates a blacklist on top of store
func NewStoreTokenBlacklist(store cache.Store) *StoreTokenBlacklist {
	return &StoreTokenBlacklist{
		store:     store,
		keyPrefix: "token:blacklist:",
		now:       time.Now,
	}
}

func (b *StoreTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *StoreTokenBlacklist) userKey(userID string) string {
	return b.keyPrefix + "user:" + userID
}

// AddToBlacklist revokes jti for ttl. A non-positive ttl means the token has
// already expired and nothing is stored.
func (b *StoreTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.store.Set(ctx, b.jtiKey(jti), []byte("1"), ttl); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted checks if jti has been revoked
func (b *StoreTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, ok, err := b.store.Get(ctx, b.jtiKey(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return ok, nil
}

// AddUserTokensToBlacklist stores the invalidation instant of userID
func (b *StoreTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	stamp := strconv.FormatInt(b.now().UnixNano(), 10)
	if err := b.store.Set(ctx, b.userKey(userID), []byte(stamp), ttl); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

// IsUserTokenInvalidated compares tokenIssuedAt with the stored instant.
// JWT issue times have second precision, so a token issued in the same
// second as the invalidation is rejected.
func (b *StoreTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	raw, ok, err := b.store.Get(ctx, b.userKey(userID))
	if err != nil {
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}
	if !ok {
		return false, nil
	}
	nanos, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	return tokenIssuedAt.Unix() <= time.Unix(0, nanos).Unix(), nil
}

var _ TokenBlacklist = (*StoreTokenBlacklist)(nil)
