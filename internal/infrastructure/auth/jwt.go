// Package auth issues and verifies the JWT pairs used by the API and keeps
// the list of revoked tokens.
package auth

import (
	"errors"
	"time"

	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tells access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
)

// Claims carry the account but not its role: the role is looked up on each
// request so a promotion or demotion applies at once.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// UserUUID parses UserID. Validated claims always hold a valid UUID.
func (c *Claims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}

// IssuedAtTime is the zero time when iat is missing.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// RemainingTTL is how long the token stays valid, never negative.
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// TokenPair is returned by sign-in and refresh.
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// Subject is the account a pair is issued for.
type Subject struct {
	UserID uuid.UUID
	Email  string
}

// tokenKind holds what differs between access and refresh tokens.
type tokenKind struct {
	typ    TokenType
	secret []byte
	ttl    time.Duration
}

// JWTService signs HS256 tokens. Refresh tokens use their own secret when
// one is configured.
type JWTService struct {
	access, refresh tokenKind
	issuer          string
	maxRefreshCount int
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &JWTService{
		access:          tokenKind{TokenTypeAccess, []byte(cfg.Secret), cfg.AccessTokenExpiration},
		refresh:         tokenKind{TokenTypeRefresh, []byte(refreshSecret), cfg.RefreshTokenExpiration},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
	}
}

// AccessTTL is the lifetime of access tokens.
func (s *JWTService) AccessTTL() time.Duration { return s.access.ttl }

// RefreshTTL is the lifetime of refresh tokens.
func (s *JWTService) RefreshTTL() time.Duration { return s.refresh.ttl }

// GenerateTokenPair issues a fresh pair for sub.
func (s *JWTService) GenerateTokenPair(sub Subject) (*TokenPair, error) {
	return s.issue(sub, 0)
}

func (s *JWTService) issue(sub Subject, refreshCount int) (*TokenPair, error) {
	now := time.Now()
	access, err := s.sign(s.access, sub, now, 0)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(s.refresh, sub, now, refreshCount)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(s.access.ttl),
		RefreshTokenExpiresAt: now.Add(s.refresh.ttl),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(kind tokenKind, sub Subject, now time.Time, refreshCount int) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   sub.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(kind.ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:       sub.UserID.String(),
		Email:        sub.Email,
		TokenType:    kind.typ,
		RefreshCount: refreshCount,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(kind.secret)
}

// ValidateAccessToken verifies an access token.
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.verify(token, s.access)
}

// ValidateRefreshToken verifies a refresh token.
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.verify(token, s.refresh)
}

func (s *JWTService) verify(token string, kind tokenKind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return kind.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.TokenType != kind.typ:
		return nil, ErrInvalidTokenType
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshTokenPair trades a refresh token for a new pair and returns the
// claims of the token used. The refresh count grows by one per exchange up
// to the configured maximum.
func (s *JWTService) RefreshTokenPair(refreshToken string) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if s.maxRefreshCount > 0 && claims.RefreshCount >= s.maxRefreshCount {
		return nil, nil, ErrMaxRefreshExceeded
	}
	pair, err := s.issue(Subject{UserID: claims.UserUUID(), Email: claims.Email}, claims.RefreshCount+1)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}
