package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestMount_Base(t *testing.T) {
	engine := gin.New()
	clients := NewGroup("/clients").GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	Mount(engine, "/api/v2", clients)

	w := serve(engine, http.MethodGet, "/api/v2/clients")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, APIBase+"/clients").Code)
}

func TestGroup_Methods(t *testing.T) {
	engine := gin.New()
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	invoices := NewGroup("/invoices").
		GET("/:id", echo).
		POST("", echo).
		PUT("/:id", echo).
		PATCH("/:id/status", echo).
		DELETE("/:id", echo)
	Mount(engine, APIBase, invoices)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/invoices/1"},
		{http.MethodPost, "/invoices"},
		{http.MethodPut, "/invoices/1"},
		{http.MethodPatch, "/invoices/1/status"},
		{http.MethodDelete, "/invoices/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, APIBase+tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestGroup_NestedInheritsGuards(t *testing.T) {
	engine := gin.New()
	business := NewGroup("").Use(nil, func(c *gin.Context) {
		c.Header("X-Guard", "passed")
		c.Next()
	})
	assert.Len(t, business.guards, 1, "nil guards are dropped")
	business.Nested("/quotes").GET("", func(c *gin.Context) { c.String(http.StatusOK, "quotes") })
	Mount(engine, APIBase, business)

	w := serve(engine, http.MethodGet, APIBase+"/quotes")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "passed", w.Header().Get("X-Guard"))
}

func TestGroup_SharedPrefixDifferentGuards(t *testing.T) {
	engine := gin.New()
	public := NewGroup("/auth").POST("/sign-in", func(c *gin.Context) { c.String(http.StatusOK, "public") })
	private := NewGroup("/auth").Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})
	private.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, "me") })
	Mount(engine, APIBase, public, private)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, APIBase+"/auth/sign-in").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, APIBase+"/auth/me").Code)
}
