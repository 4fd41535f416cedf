package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func corsRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_NoOriginsRefusesCrossOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS(nil, nil, nil))
	router.GET("/test", okHandler)

	w := corsRequest(router, http.MethodGet, "http://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// same-site calls carry no Origin header and are untouched
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_ListedOrigins(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.facturo.fr", "http://localhost:5173"}, []string{"GET", "POST"}, []string{"Content-Type"}))
	router.GET("/test", okHandler)

	tests := []struct {
		name   string
		method string
		origin string
		status int
	}{
		{"listed origin", http.MethodGet, "https://app.facturo.fr", http.StatusOK},
		{"second listed origin", http.MethodGet, "http://localhost:5173", http.StatusOK},
		{"preflight", http.MethodOptions, "https://app.facturo.fr", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := corsRequest(router, tt.method, tt.origin)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}

	t.Run("preflight advertises methods and headers", func(t *testing.T) {
		w := corsRequest(router, http.MethodOptions, "https://app.facturo.fr")
		assert.Equal(t, "GET,POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Last-Event-Id")
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		w := corsRequest(router, http.MethodGet, "http://other.example")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCORS_Wildcard(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"*"}, nil, nil))
	router.GET("/test", okHandler)

	w := corsRequest(router, http.MethodGet, "http://anything.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"), "credentials are never allowed with *")
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"generates an ID", "", false},
		{"reuses the client ID", "req-42", true},
		{"replaces an ID with spaces", "bad id with spaces", false},
		{"replaces a non-ASCII ID", "facture-é", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			id := w.Header().Get(RequestIDKey)
			assert.Equal(t, id, w.Body.String())
			if tt.keep {
				assert.Equal(t, tt.header, id)
			} else {
				assert.Len(t, id, 32)
			}
		})
	}
}

func TestGetRequestID_HeaderFallbackTruncated(t *testing.T) {
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDKey, strings.Repeat("a", 300))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), maxRequestIDLength)
}

func TestSecure(t *testing.T) {
	serve := func(h SecurityHeaders) http.Header {
		router := gin.New()
		router.Use(Secure(h))
		router.GET("/test", okHandler)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		return w.Header()
	}

	h := serve(DefaultSecurityHeaders())
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.NotEmpty(t, h.Get("Permissions-Policy"))
	assert.Empty(t, h.Get("Strict-Transport-Security"))

	h = serve(SecurityHeaders{HSTSMaxAge: 365 * 24 * time.Hour, HSTSPreload: true})
	assert.Equal(t, "max-age=31536000; includeSubDomains; preload", h.Get("Strict-Transport-Security"))
	assert.Empty(t, h.Get("Content-Security-Policy"))
}
