package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys and headers
const (
	PrincipalKey     = "principal"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
	AccessTokenQuery = "access_token"
)

// Authenticator turns an access token into the calling Principal
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (identity.Principal, error)
}

// AccessChecker decides whether the caller may use the business routes
type AccessChecker interface {
	CheckAccess(ctx context.Context, p identity.Principal) error
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Authenticator Authenticator
	// AllowQueryToken accepts ?access_token= when no header is sent.
	// EventSource cannot set headers, so only the SSE stream enables it.
	AllowQueryToken bool
	Logger          *zap.Logger
}

// Auth requires a valid bearer token on every request
func Auth(authenticator Authenticator, log *zap.Logger) gin.HandlerFunc {
	return AuthWithConfig(AuthConfig{Authenticator: authenticator, Logger: log})
}

// AuthWithConfig creates the authentication middleware with custom config
func AuthWithConfig(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, ok := extractToken(c, cfg.AllowQueryToken)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		p, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				cfg.Logger.Debug("Authentication rejected",
					zap.String("code", domainErr.Code),
					zap.String("path", c.Request.URL.Path))
				abortWithError(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
				return
			}
			// Blacklist or role store down: refuse rather than guess.
			cfg.Logger.Error("Authentication failed", zap.Error(err))
			abortWithError(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Authentication is temporarily unavailable")
			return
		}

		SetPrincipal(c, p)
		c.Next()
	}
}

func extractToken(c *gin.Context, allowQuery bool) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		return token, token != ""
	}
	if allowQuery {
		token := c.Query(AccessTokenQuery)
		return token, token != ""
	}
	return "", false
}

// SetPrincipal stores p in the gin context and in the request context, and
// tags request logs with the user ID.
func SetPrincipal(c *gin.Context, p identity.Principal) {
	c.Set(PrincipalKey, p)
	ctx := identity.WithPrincipal(c.Request.Context(), p)
	ctx = logger.WithUserID(ctx, p.UserID.String())
	c.Request = c.Request.WithContext(ctx)
}

// GetPrincipal returns the authenticated caller, or the zero Principal
func GetPrincipal(c *gin.Context) identity.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(identity.Principal); ok {
			return p
		}
	}
	p, _ := identity.PrincipalFrom(c.Request.Context())
	return p
}

// RequireAdmin rejects callers without the admin role. It runs after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := GetPrincipal(c).RequireAdmin(); err != nil {
			var domainErr *shared.DomainError
			errors.As(err, &domainErr)
			abortWithError(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
			return
		}
		c.Next()
	}
}

// SubscriptionGate lets through only callers with an active subscription.
// Admins always pass. It runs after Auth.
func SubscriptionGate(checker AccessChecker, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p.IsAdmin() {
			c.Next()
			return
		}
		if err := checker.CheckAccess(c.Request.Context(), p); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				abortWithError(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
				return
			}
			log.Error("Subscription check failed", zap.String("user_id", p.UserID.String()), zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
