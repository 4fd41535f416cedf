package handler

import (
	"context"

	invoicingapp "github.com/facturo/backend/internal/application/invoicing"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService issues and manages invoices
type InvoiceService interface {
	Create(ctx context.Context, p identity.Principal, req invoicingapp.CreateInvoiceRequest) (*invoicingapp.InvoiceResponse, error)
	Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*invoicingapp.InvoiceResponse, error)
	List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[invoicingapp.InvoiceResponse], error)
	Update(ctx context.Context, p identity.Principal, id uuid.UUID, req invoicingapp.UpdateInvoiceRequest) (*invoicingapp.InvoiceResponse, error)
	UpdateStatus(ctx context.Context, p identity.Principal, id uuid.UUID, req invoicingapp.UpdateStatusRequest) (*invoicingapp.InvoiceResponse, error)
	Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error
	PreviewTotals(ctx context.Context, req invoicingapp.PreviewTotalsRequest) (*invoicingapp.TotalsResponse, error)
}

// DocumentService derives quotes and delivery notes from invoices
type DocumentService interface {
	GenerateQuote(ctx context.Context, p identity.Principal, invoiceID uuid.UUID) (*invoicingapp.QuoteResponse, error)
	GenerateDeliveryNote(ctx context.Context, p identity.Principal, invoiceID uuid.UUID) (*invoicingapp.DeliveryNoteResponse, error)
	GetQuote(ctx context.Context, p identity.Principal, id uuid.UUID) (*invoicingapp.QuoteResponse, error)
	ListQuotes(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[invoicingapp.QuoteResponse], error)
	DeleteQuote(ctx context.Context, p identity.Principal, id uuid.UUID) error
	GetDeliveryNote(ctx context.Context, p identity.Principal, id uuid.UUID) (*invoicingapp.DeliveryNoteResponse, error)
	ListDeliveryNotes(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[invoicingapp.DeliveryNoteResponse], error)
	DeleteDeliveryNote(ctx context.Context, p identity.Principal, id uuid.UUID) error
}

// InvoiceHandler handles /api/v1/invoices
type InvoiceHandler struct {
	BaseHandler
	invoiceService  InvoiceService
	documentService DocumentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService InvoiceService, documentService DocumentService, log *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler:     newBaseHandler(log),
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// Create godoc
// @Summary      Issue an invoice
// @Description  Issues an invoice with its lines and allocates its FAC number
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoicingapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoicingapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// PreviewTotals godoc
// @Summary      Compute invoice totals
// @Description  Computes HT, TVA and TTC for unsaved lines
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoicingapp.PreviewTotalsRequest true "Lines"
// @Success      200 {object} dto.Response{data=invoicingapp.TotalsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/preview-totals [post]
func (h *InvoiceHandler) PreviewTotals(c *gin.Context) {
	var req invoicingapp.PreviewTotalsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	totals, err := h.invoiceService.PreviewTotals(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// GetByID godoc
// @Summary      Get an invoice
// @Description  Returns an invoice with its lines
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Description  Lists invoices, filterable by status and client_id
// @Tags         invoices
// @Produce      json
// @Param        search query string false "Search term"
// @Param        status query string false "Invoice status" Enums(proforma, validated, final, paid, cancelled)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]invoicingapp.InvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var query invoicingapp.InvoiceListFilter
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.invoiceService.List(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Update godoc
// @Summary      Update an invoice
// @Description  Replaces the free-text fields of an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoicingapp.UpdateInvoiceRequest true "Free-text fields"
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req invoicingapp.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// UpdateStatus godoc
// @Summary      Change the status of an invoice
// @Description  Moves an invoice to another status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoicingapp.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=invoicingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req invoicingapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete an invoice
// @Description  Removes an invoice and its lines
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GenerateQuote godoc
// @Summary      Derive a quote
// @Description  Derives a DEVIS from an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      201 {object} dto.Response{data=invoicingapp.QuoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/quotes [post]
func (h *InvoiceHandler) GenerateQuote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	quote, err := h.documentService.GenerateQuote(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

// GenerateDeliveryNote godoc
// @Summary      Derive a delivery note
// @Description  Derives a BL from an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      201 {object} dto.Response{data=invoicingapp.DeliveryNoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/delivery-notes [post]
func (h *InvoiceHandler) GenerateDeliveryNote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	note, err := h.documentService.GenerateDeliveryNote(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}
