package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (identity.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(identity.Principal), args.Error(1)
}

type mockAccessChecker struct {
	mock.Mock
}

func (m *mockAccessChecker) CheckAccess(ctx context.Context, p identity.Principal) error {
	return m.Called(ctx, p).Error(0)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestAuth(t *testing.T) {
	user := identity.Principal{UserID: uuid.New(), Email: "marie@example.com", Role: identity.RoleUser, TokenID: "jti-1"}

	authn := new(mockAuthenticator)
	authn.On("Authenticate", mock.Anything, "good").Return(user, nil)
	authn.On("Authenticate", mock.Anything, "expired").
		Return(identity.Principal{}, shared.NewDomainError("TOKEN_EXPIRED", "Token has expired"))
	authn.On("Authenticate", mock.Anything, "store-down").
		Return(identity.Principal{}, errors.New("redis: connection refused"))

	router := gin.New()
	router.Use(RequestID(), Auth(authn, nil))
	router.GET("/me", func(c *gin.Context) {
		p := GetPrincipal(c)
		fromCtx, ok := identity.PrincipalFrom(c.Request.Context())
		assert.True(t, ok)
		assert.Equal(t, p, fromCtx)
		assert.Equal(t, p.UserID.String(), logger.GetUserID(c.Request.Context()))
		c.String(http.StatusOK, p.Email)
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "valid token", header: "Bearer good", status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "empty bearer", header: "Bearer ", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "expired token", header: "Bearer expired", status: http.StatusUnauthorized, code: "TOKEN_EXPIRED"},
		{name: "revocation store down", header: "Bearer store-down", status: http.StatusServiceUnavailable, code: "SERVICE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code == "" {
				assert.Equal(t, user.Email, w.Body.String())
				return
			}
			errInfo := decodeError(t, w)
			assert.Equal(t, tt.code, errInfo.Code)
			assert.Equal(t, w.Header().Get(RequestIDKey), errInfo.RequestID)
		})
	}
}

func TestAuth_QueryToken(t *testing.T) {
	user := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}
	authn := new(mockAuthenticator)
	authn.On("Authenticate", mock.Anything, "sse-token").Return(user, nil)

	newRouter := func(allow bool) *gin.Engine {
		router := gin.New()
		router.Use(AuthWithConfig(AuthConfig{Authenticator: authn, AllowQueryToken: allow}))
		router.GET("/stream", okHandler)
		return router
	}

	w := httptest.NewRecorder()
	newRouter(true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream?access_token=sse-token", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newRouter(false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream?access_token=sse-token", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func withPrincipal(p identity.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.IsZero() {
			SetPrincipal(c, p)
		}
		c.Next()
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		p      identity.Principal
		status int
	}{
		{name: "admin", p: identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin}, status: http.StatusOK},
		{name: "user", p: identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}, status: http.StatusForbidden},
		{name: "anonymous", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withPrincipal(tt.p), RequireAdmin())
			router.GET("/admin", okHandler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSubscriptionGate(t *testing.T) {
	active := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}
	lapsed := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}
	broken := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}
	admin := identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin}

	checker := new(mockAccessChecker)
	checker.On("CheckAccess", mock.Anything, active).Return(nil)
	checker.On("CheckAccess", mock.Anything, lapsed).Return(shared.ErrSubscriptionRequired)
	checker.On("CheckAccess", mock.Anything, broken).Return(errors.New("db down"))

	tests := []struct {
		name   string
		p      identity.Principal
		status int
		code   string
	}{
		{name: "active subscription", p: active, status: http.StatusOK},
		{name: "no subscription", p: lapsed, status: http.StatusPaymentRequired, code: "SUBSCRIPTION_REQUIRED"},
		{name: "check failure", p: broken, status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
		{name: "admin bypasses", p: admin, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withPrincipal(tt.p), SubscriptionGate(checker, nil))
			router.GET("/invoices", okHandler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, w).Code)
			}
		})
	}
	checker.AssertNotCalled(t, "CheckAccess", mock.Anything, admin)
}
