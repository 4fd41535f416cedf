package handler

import (
	invoicingapp "github.com/facturo/backend/internal/application/invoicing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DerivedDocumentHandler handles /api/v1/quotes and /api/v1/delivery-notes
type DerivedDocumentHandler struct {
	BaseHandler
	documentService DocumentService
}

// NewDerivedDocumentHandler creates a new DerivedDocumentHandler
func NewDerivedDocumentHandler(documentService DocumentService, log *zap.Logger) *DerivedDocumentHandler {
	return &DerivedDocumentHandler{
		BaseHandler:     newBaseHandler(log),
		documentService: documentService,
	}
}

// ListQuotes godoc
// @Summary      List quotes
// @Description  Lists quotes, filterable by invoice_id
// @Tags         quotes
// @Produce      json
// @Param        search query string false "Search term"
// @Param        invoice_id query string false "Source invoice ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]invoicingapp.QuoteResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes [get]
func (h *DerivedDocumentHandler) ListQuotes(c *gin.Context) {
	var query invoicingapp.DerivedListFilter
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.documentService.ListQuotes(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// GetQuote godoc
// @Summary      Get a quote
// @Description  Returns one quote
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.QuoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id} [get]
func (h *DerivedDocumentHandler) GetQuote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	quote, err := h.documentService.GetQuote(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// DeleteQuote godoc
// @Summary      Delete a quote
// @Description  Removes a quote. Its number is not reused
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id} [delete]
func (h *DerivedDocumentHandler) DeleteQuote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.documentService.DeleteQuote(c.Request.Context(), principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListDeliveryNotes godoc
// @Summary      List delivery notes
// @Description  Lists delivery notes, filterable by invoice_id
// @Tags         delivery-notes
// @Produce      json
// @Param        search query string false "Search term"
// @Param        invoice_id query string false "Source invoice ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]invoicingapp.DeliveryNoteResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /delivery-notes [get]
func (h *DerivedDocumentHandler) ListDeliveryNotes(c *gin.Context) {
	var query invoicingapp.DerivedListFilter
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.documentService.ListDeliveryNotes(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// GetDeliveryNote godoc
// @Summary      Get a delivery note
// @Description  Returns one delivery note
// @Tags         delivery-notes
// @Produce      json
// @Param        id path string true "Delivery note ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicingapp.DeliveryNoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /delivery-notes/{id} [get]
func (h *DerivedDocumentHandler) GetDeliveryNote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	note, err := h.documentService.GetDeliveryNote(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// DeleteDeliveryNote godoc
// @Summary      Delete a delivery note
// @Description  Removes a delivery note
// @Tags         delivery-notes
// @Produce      json
// @Param        id path string true "Delivery note ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /delivery-notes/{id} [delete]
func (h *DerivedDocumentHandler) DeleteDeliveryNote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.documentService.DeleteDeliveryNote(c.Request.Context(), principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
