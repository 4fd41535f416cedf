package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	invoicingapp "github.com/facturo/backend/internal/application/invoicing"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) Create(ctx context.Context, p identity.Principal, req invoicingapp.CreateInvoiceRequest) (*invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[invoicingapp.InvoiceResponse], error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[invoicingapp.InvoiceResponse]), args.Error(1)
}

func (m *mockInvoiceService) Update(ctx context.Context, p identity.Principal, id uuid.UUID, req invoicingapp.UpdateInvoiceRequest) (*invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, p, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) UpdateStatus(ctx context.Context, p identity.Principal, id uuid.UUID, req invoicingapp.UpdateStatusRequest) (*invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, p, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockInvoiceService) PreviewTotals(ctx context.Context, req invoicingapp.PreviewTotalsRequest) (*invoicingapp.TotalsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.TotalsResponse), args.Error(1)
}

type mockDocumentService struct {
	mock.Mock
}

func (m *mockDocumentService) GenerateQuote(ctx context.Context, p identity.Principal, invoiceID uuid.UUID) (*invoicingapp.QuoteResponse, error) {
	args := m.Called(ctx, p, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.QuoteResponse), args.Error(1)
}

func (m *mockDocumentService) GenerateDeliveryNote(ctx context.Context, p identity.Principal, invoiceID uuid.UUID) (*invoicingapp.DeliveryNoteResponse, error) {
	args := m.Called(ctx, p, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.DeliveryNoteResponse), args.Error(1)
}

func (m *mockDocumentService) GetQuote(ctx context.Context, p identity.Principal, id uuid.UUID) (*invoicingapp.QuoteResponse, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.QuoteResponse), args.Error(1)
}

func (m *mockDocumentService) ListQuotes(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[invoicingapp.QuoteResponse], error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[invoicingapp.QuoteResponse]), args.Error(1)
}

func (m *mockDocumentService) DeleteQuote(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockDocumentService) GetDeliveryNote(ctx context.Context, p identity.Principal, id uuid.UUID) (*invoicingapp.DeliveryNoteResponse, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.DeliveryNoteResponse), args.Error(1)
}

func (m *mockDocumentService) ListDeliveryNotes(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[invoicingapp.DeliveryNoteResponse], error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[invoicingapp.DeliveryNoteResponse]), args.Error(1)
}

func (m *mockDocumentService) DeleteDeliveryNote(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func setupInvoiceRouter(p identity.Principal) (*gin.Engine, *mockInvoiceService, *mockDocumentService) {
	invoices := new(mockInvoiceService)
	documents := new(mockDocumentService)
	h := NewInvoiceHandler(invoices, documents, nil)
	d := NewDerivedDocumentHandler(documents, nil)

	r := newTestRouter(p)
	r.GET("/invoices", h.List)
	r.POST("/invoices", h.Create)
	r.POST("/invoices/preview-totals", h.PreviewTotals)
	r.GET("/invoices/:id", h.GetByID)
	r.PUT("/invoices/:id", h.Update)
	r.PATCH("/invoices/:id/status", h.UpdateStatus)
	r.DELETE("/invoices/:id", h.Delete)
	r.POST("/invoices/:id/quotes", h.GenerateQuote)
	r.POST("/invoices/:id/delivery-notes", h.GenerateDeliveryNote)
	r.GET("/quotes", d.ListQuotes)
	r.GET("/quotes/:id", d.GetQuote)
	r.DELETE("/delivery-notes/:id", d.DeleteDeliveryNote)
	return r, invoices, documents
}

func validInvoiceBody(clientID uuid.UUID) map[string]any {
	return map[string]any{
		"client_id": clientID,
		"date":      "2026-03-14",
		"items": []map[string]any{
			{"description": "Consulting", "quantity": "2", "unit_price": "150.00", "tva": "20"},
		},
	}
}

func TestInvoiceHandler_Create(t *testing.T) {
	r, invoices, _ := setupInvoiceRouter(testUser)
	clientID := uuid.New()

	invoices.On("Create", mock.Anything, testUser, mock.MatchedBy(func(req invoicingapp.CreateInvoiceRequest) bool {
		return req.ClientID == clientID && len(req.Items) == 1 &&
			req.Items[0].UnitPrice.Equal(decimal.RequireFromString("150"))
	})).Return(&invoicingapp.InvoiceResponse{
		ID:          uuid.New(),
		Number:      "FAC-26-0001",
		ClientID:    clientID,
		Status:      "proforma",
		TotalAmount: decimal.RequireFromString("360"),
	}, nil)

	w := performRequest(r, http.MethodPost, "/invoices", validInvoiceBody(clientID))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got invoicingapp.InvoiceResponse
	decodeData(t, w, &got)
	assert.Equal(t, "FAC-26-0001", got.Number)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("360")))
	invoices.AssertExpectations(t)
}

func TestInvoiceHandler_Create_Validation(t *testing.T) {
	r, invoices, _ := setupInvoiceRouter(testUser)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{
			name: "tva above 100",
			body: func() map[string]any {
				b := validInvoiceBody(uuid.New())
				b["items"] = []map[string]any{{"description": "X", "quantity": "1", "unit_price": "10", "tva": "150"}}
				return b
			}(),
			field: "items[0].tva",
		},
		{
			name: "zero quantity",
			body: func() map[string]any {
				b := validInvoiceBody(uuid.New())
				b["items"] = []map[string]any{{"description": "X", "quantity": "0", "unit_price": "10", "tva": "20"}}
				return b
			}(),
			field: "items[0].quantity",
		},
		{
			name: "no items",
			body: func() map[string]any {
				b := validInvoiceBody(uuid.New())
				b["items"] = []map[string]any{}
				return b
			}(),
			field: "items",
		},
		{
			name: "bad date",
			body: func() map[string]any {
				b := validInvoiceBody(uuid.New())
				b["date"] = "14/03/2026"
				return b
			}(),
			field: "date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, "/invoices", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			require.NotEmpty(t, resp.Error.Details)
			assert.Equal(t, tt.field, resp.Error.Details[0].Field)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/invoices", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", errorCode(t, w))
	})
	invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "no company profile", err: shared.ErrCompanyProfileRequired, status: http.StatusUnprocessableEntity, code: "COMPANY_PROFILE_REQUIRED"},
		{name: "unknown client", err: shared.ErrNotFound, status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "number collision", err: shared.NewDomainError("DUPLICATE_NUMBER", "Number already used"), status: http.StatusConflict, code: "DUPLICATE_NUMBER"},
		{name: "unexpected", err: errors.New("pq: connection reset"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, invoices, _ := setupInvoiceRouter(testUser)
			invoices.On("Create", mock.Anything, testUser, mock.Anything).Return(nil, tt.err)

			w := performRequest(r, http.MethodPost, "/invoices", validInvoiceBody(uuid.New()))

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestInvoiceHandler_PreviewTotals(t *testing.T) {
	r, invoices, _ := setupInvoiceRouter(testUser)
	invoices.On("PreviewTotals", mock.Anything, mock.Anything).Return(&invoicingapp.TotalsResponse{
		TotalHT:  decimal.RequireFromString("300"),
		TotalTVA: decimal.RequireFromString("60"),
		TotalTTC: decimal.RequireFromString("360"),
	}, nil)

	w := performRequest(r, http.MethodPost, "/invoices/preview-totals", map[string]any{
		"items": []map[string]any{{"description": "Consulting", "quantity": "2", "unit_price": "150", "tva": "20"}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got invoicingapp.TotalsResponse
	decodeData(t, w, &got)
	assert.True(t, got.TotalTTC.Equal(decimal.RequireFromString("360")))
}

func TestInvoiceHandler_List(t *testing.T) {
	r, invoices, _ := setupInvoiceRouter(testUser)
	clientID := uuid.New()
	invoices.On("List", mock.Anything, testUser, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == invoicing.Status("paid") && f.Filters["client_id"] == clientID && f.Page == 2
	})).Return(&shared.Paginated[invoicingapp.InvoiceResponse]{
		Items:    []invoicingapp.InvoiceResponse{{Number: "FAC-26-0021"}},
		Total:    21,
		Page:     2,
		PageSize: 20,
	}, nil)

	w := performRequest(r, http.MethodGet, "/invoices?status=paid&page=2&client_id="+clientID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got []invoicingapp.InvoiceResponse
	resp := decodeData(t, w, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "FAC-26-0021", got[0].Number)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(21), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	w = performRequest(r, http.MethodGet, "/invoices?status=archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_UpdateStatus(t *testing.T) {
	r, invoices, _ := setupInvoiceRouter(testUser)
	id := uuid.New()
	invoices.On("UpdateStatus", mock.Anything, testUser, id, invoicingapp.UpdateStatusRequest{Status: "paid"}).
		Return(&invoicingapp.InvoiceResponse{ID: id, Status: "paid"}, nil)
	invoices.On("UpdateStatus", mock.Anything, testUser, id, invoicingapp.UpdateStatusRequest{Status: "proforma"}).
		Return(nil, shared.ErrInvalidState)

	w := performRequest(r, http.MethodPatch, "/invoices/"+id.String()+"/status", map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performRequest(r, http.MethodPatch, "/invoices/"+id.String()+"/status", map[string]string{"status": "proforma"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_STATE", errorCode(t, w))

	w = performRequest(r, http.MethodPatch, "/invoices/"+id.String()+"/status", map[string]string{"status": "draft"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_GetUpdateDelete(t *testing.T) {
	r, invoices, _ := setupInvoiceRouter(testUser)
	id := uuid.New()
	invoices.On("Get", mock.Anything, testUser, id).Return(&invoicingapp.InvoiceResponse{ID: id, Number: "FAC-26-0003"}, nil)
	invoices.On("Update", mock.Anything, testUser, id, invoicingapp.UpdateInvoiceRequest{Comments: "Net 30"}).
		Return(&invoicingapp.InvoiceResponse{ID: id, Comments: "Net 30"}, nil)
	invoices.On("Delete", mock.Anything, testUser, id).Return(nil)

	w := performRequest(r, http.MethodGet, "/invoices/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodGet, "/invoices/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, w))

	w = performRequest(r, http.MethodPut, "/invoices/"+id.String(), map[string]string{"comments": "Net 30"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodDelete, "/invoices/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	invoices.AssertExpectations(t)
}

func TestInvoiceHandler_DerivedDocuments(t *testing.T) {
	r, _, documents := setupInvoiceRouter(testUser)
	invoiceID := uuid.New()
	documents.On("GenerateQuote", mock.Anything, testUser, invoiceID).
		Return(&invoicingapp.QuoteResponse{InvoiceID: invoiceID, Number: "DEVIS-26-0001"}, nil)
	documents.On("GenerateDeliveryNote", mock.Anything, testUser, invoiceID).
		Return(&invoicingapp.DeliveryNoteResponse{InvoiceID: invoiceID, Number: "BL-26-0001"}, nil)
	documents.On("ListQuotes", mock.Anything, testUser, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["invoice_id"] == invoiceID
	})).Return(&shared.Paginated[invoicingapp.QuoteResponse]{Items: []invoicingapp.QuoteResponse{{Number: "DEVIS-26-0001"}}, Total: 1, Page: 1, PageSize: 20}, nil)
	noteID := uuid.New()
	documents.On("DeleteDeliveryNote", mock.Anything, testUser, noteID).Return(nil)

	w := performRequest(r, http.MethodPost, "/invoices/"+invoiceID.String()+"/quotes", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var quote invoicingapp.QuoteResponse
	decodeData(t, w, &quote)
	assert.Equal(t, "DEVIS-26-0001", quote.Number)

	w = performRequest(r, http.MethodPost, "/invoices/"+invoiceID.String()+"/delivery-notes", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(r, http.MethodGet, "/quotes?invoice_id="+invoiceID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quotes []invoicingapp.QuoteResponse
	decodeData(t, w, &quotes)
	assert.Len(t, quotes, 1)

	w = performRequest(r, http.MethodDelete, "/delivery-notes/"+noteID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	documents.AssertExpectations(t)
}
