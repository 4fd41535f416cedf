package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/interfaces/http/handler"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAPI mounts the API with nil services: a request that reaches a
// service panics, and recovery answers 418. Guards are stand-ins: the
// X-Test-Role header authenticates, the gate passes only X-Test-Paid.
func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	engine := gin.New()
	engine.Use(gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, _ any) {
		c.AbortWithStatus(http.StatusTeapot)
	}))
	fakeAuth := func(c *gin.Context) {
		role := c.GetHeader("X-Test-Role")
		if role == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		middleware.SetPrincipal(c, identity.Principal{UserID: uuid.New(), Role: identity.Role(role)})
		c.Next()
	}
	gate := func(c *gin.Context) {
		if middleware.GetPrincipal(c).IsAdmin() || c.GetHeader("X-Test-Paid") != "" {
			c.Next()
			return
		}
		c.AbortWithStatus(http.StatusPaymentRequired)
	}
	RegisterAPI(engine, Handlers{
		System:          handler.NewSystemHandler("test", nil, nil),
		Auth:            handler.NewAuthHandler(nil, nil),
		Client:          handler.NewClientHandler(nil, nil),
		Supplier:        handler.NewSupplierHandler(nil, nil),
		Product:         handler.NewProductHandler(nil, nil),
		Template:        handler.NewTemplateHandler(nil, nil),
		CompanyProfile:  handler.NewCompanyProfileHandler(nil, 0, nil),
		Invoice:         handler.NewInvoiceHandler(nil, nil, nil),
		DerivedDocument: handler.NewDerivedDocumentHandler(nil, nil),
		Document:        handler.NewDocumentHandler(nil, nil),
		Chat:            handler.NewChatHandler(nil, nil),
		Subscription:    handler.NewSubscriptionHandler(nil, 0, nil),
		Realtime:        handler.NewRealtimeHandler(nil, 0, nil),
	}, Guards{
		Auth:             fakeAuth,
		StreamAuth:       fakeAuth,
		SubscriptionGate: gate,
		Admin:            middleware.RequireAdmin(),
	})
	return engine
}

func TestRegisterAPI_RouteTable(t *testing.T) {
	engine := newTestAPI(t)
	routes := map[string]bool{}
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /health",
		"POST /api/v1/auth/sign-up", "POST /api/v1/auth/sign-in", "POST /api/v1/auth/refresh",
		"POST /api/v1/auth/sign-out", "GET /api/v1/auth/me", "POST /api/v1/auth/password",
		"GET /api/v1/realtime/stream",
		"GET /api/v1/subscription", "POST /api/v1/subscription",
		"GET /api/v1/admin/subscriptions/pending",
		"POST /api/v1/admin/subscriptions/:user_id/approve", "POST /api/v1/admin/subscriptions/:user_id/reject",
		"POST /api/v1/templates/:id/default", "GET /api/v1/templates/default",
		"GET /api/v1/company-profile", "PUT /api/v1/company-profile", "POST /api/v1/company-profile/assets/:kind",
		"GET /api/v1/invoices", "POST /api/v1/invoices", "POST /api/v1/invoices/preview-totals",
		"GET /api/v1/invoices/:id", "PUT /api/v1/invoices/:id", "PATCH /api/v1/invoices/:id/status",
		"DELETE /api/v1/invoices/:id", "POST /api/v1/invoices/:id/quotes", "POST /api/v1/invoices/:id/delivery-notes",
		"GET /api/v1/quotes", "GET /api/v1/quotes/:id", "DELETE /api/v1/quotes/:id",
		"GET /api/v1/delivery-notes", "GET /api/v1/delivery-notes/:id", "DELETE /api/v1/delivery-notes/:id",
		"GET /api/v1/documents/:kind/:id/html", "GET /api/v1/documents/:kind/:id/pdf",
		"GET /api/v1/chat/messages", "POST /api/v1/chat/messages", "POST /api/v1/chat/messages/read",
		"GET /api/v1/admin/chat/conversations",
		"GET /api/v1/admin/chat/:user_id/messages", "POST /api/v1/admin/chat/:user_id/messages",
	}
	for _, resource := range []string{"clients", "products", "suppliers", "templates"} {
		base := "/api/v1/" + resource
		want = append(want, "GET "+base, "POST "+base, "GET "+base+"/:id", "PUT "+base+"/:id", "DELETE "+base+"/:id")
	}
	for _, route := range want {
		assert.True(t, routes[route], "missing route %s", route)
	}
}

func TestRegisterAPI_Tiers(t *testing.T) {
	engine := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		paid   bool
		status int
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", status: http.StatusOK},
		{name: "sign-in is public", method: http.MethodPost, path: "/api/v1/auth/sign-in", status: http.StatusBadRequest},
		{name: "me needs a token", method: http.MethodGet, path: "/api/v1/auth/me", status: http.StatusUnauthorized},
		{name: "business needs a token", method: http.MethodGet, path: "/api/v1/invoices", status: http.StatusUnauthorized},
		{name: "business needs a subscription", method: http.MethodGet, path: "/api/v1/invoices", role: "user", status: http.StatusPaymentRequired},
		{name: "subscription route skips the gate", method: http.MethodGet, path: "/api/v1/subscription", role: "user", status: http.StatusTeapot},
		{name: "paid user reaches business", method: http.MethodGet, path: "/api/v1/clients", role: "user", paid: true, status: http.StatusTeapot},
		{name: "admin bypasses the gate", method: http.MethodGet, path: "/api/v1/products", role: "admin", status: http.StatusTeapot},
		{name: "admin routes refuse users", method: http.MethodGet, path: "/api/v1/admin/subscriptions/pending", role: "user", paid: true, status: http.StatusForbidden},
		{name: "admin routes accept admins", method: http.MethodGet, path: "/api/v1/admin/chat/conversations", role: "admin", status: http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.path, strings.NewReader(""))
			require.NoError(t, err)
			if tt.role != "" {
				req.Header.Set("X-Test-Role", tt.role)
			}
			if tt.paid {
				req.Header.Set("X-Test-Paid", "1")
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
