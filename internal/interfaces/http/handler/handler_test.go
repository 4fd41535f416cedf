package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var (
	testUser  = identity.Principal{UserID: uuid.New(), Email: "marie@example.com", Role: identity.RoleUser, TokenID: "jti-user"}
	testAdmin = identity.Principal{UserID: uuid.New(), Email: "admin@example.com", Role: identity.RoleAdmin, TokenID: "jti-admin"}
)

// newTestRouter builds an engine where every request is made by p
func newTestRouter(p identity.Principal) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		if !p.IsZero() {
			middleware.SetPrincipal(c, p)
		}
		c.Next()
	})
	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// decodeData unmarshals the data member of the envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	resp := decodeResponse(t, w)
	require.True(t, resp.Success, w.Body.String())
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}
