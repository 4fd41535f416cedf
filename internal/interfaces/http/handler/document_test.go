package handler

import (
	"context"
	"net/http"
	"testing"

	printingapp "github.com/facturo/backend/internal/application/printing"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExportService struct {
	mock.Mock
}

func (m *mockExportService) RenderHTML(ctx context.Context, p identity.Principal, kind invoicing.DocumentKind, id uuid.UUID, templateID *uuid.UUID) (*printingapp.HTMLDocument, error) {
	args := m.Called(ctx, p, kind, id, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.HTMLDocument), args.Error(1)
}

func (m *mockExportService) ExportPDF(ctx context.Context, p identity.Principal, kind invoicing.DocumentKind, id uuid.UUID, templateID *uuid.UUID) (*printingapp.PDFDocument, error) {
	args := m.Called(ctx, p, kind, id, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.PDFDocument), args.Error(1)
}

func setupDocumentRouter() (*gin.Engine, *mockExportService) {
	export := new(mockExportService)
	h := NewDocumentHandler(export, nil)
	r := newTestRouter(testUser)
	r.GET("/documents/:kind/:id/html", h.HTML)
	r.GET("/documents/:kind/:id/pdf", h.PDF)
	return r, export
}

func TestDocumentHandler_HTML(t *testing.T) {
	r, export := setupDocumentRouter()
	id := uuid.New()
	templateID := uuid.New()
	export.On("RenderHTML", mock.Anything, testUser, invoicing.KindQuote, id, &templateID).
		Return(&printingapp.HTMLDocument{Number: "DEVIS-26-0004", HTML: "<html><body>DEVIS-26-0004</body></html>"}, nil)

	w := performRequest(r, http.MethodGet, "/documents/quote/"+id.String()+"/html?template_id="+templateID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "DEVIS-26-0004", w.Header().Get("X-Document-Number"))
	assert.Contains(t, w.Body.String(), "DEVIS-26-0004")
}

func TestDocumentHandler_PDF(t *testing.T) {
	r, export := setupDocumentRouter()
	id := uuid.New()
	export.On("ExportPDF", mock.Anything, testUser, invoicing.KindInvoice, id, (*uuid.UUID)(nil)).
		Return(&printingapp.PDFDocument{Filename: "FAC-26-0001.pdf", Content: []byte("%PDF-1.4"), Pages: 2}, nil)

	w := performRequest(r, http.MethodGet, "/documents/invoice/"+id.String()+"/pdf", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="FAC-26-0001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", w.Header().Get("X-Page-Count"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestDocumentHandler_Rejections(t *testing.T) {
	r, export := setupDocumentRouter()
	missing := uuid.New()
	export.On("ExportPDF", mock.Anything, testUser, invoicing.KindDeliveryNote, missing, (*uuid.UUID)(nil)).
		Return(nil, shared.ErrNotFound)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "unknown kind", path: "/documents/receipt/" + uuid.NewString() + "/pdf", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "bad id", path: "/documents/invoice/42/pdf", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "bad template", path: "/documents/invoice/" + uuid.NewString() + "/html?template_id=plain", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "someone else's document", path: "/documents/delivery_note/" + missing.String() + "/pdf", status: http.StatusNotFound, code: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}
