package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	printingapp "github.com/facturo/backend/internal/application/printing"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportService renders documents to HTML and PDF
type ExportService interface {
	RenderHTML(ctx context.Context, p identity.Principal, kind invoicing.DocumentKind, id uuid.UUID, templateID *uuid.UUID) (*printingapp.HTMLDocument, error)
	ExportPDF(ctx context.Context, p identity.Principal, kind invoicing.DocumentKind, id uuid.UUID, templateID *uuid.UUID) (*printingapp.PDFDocument, error)
}

// DocumentHandler handles /api/v1/documents
type DocumentHandler struct {
	BaseHandler
	exportService ExportService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(exportService ExportService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:   newBaseHandler(log),
		exportService: exportService,
	}
}

// HTML godoc
// @Summary      Render a document as HTML
// @Description  Returns the printable HTML of an invoice, quote or delivery note
// @Tags         documents
// @Produce      html
// @Param        kind path string true "Document kind" Enums(invoice, quote, delivery_note)
// @Param        id path string true "Document ID" format(uuid)
// @Param        template_id query string false "Template ID, the default template when omitted" format(uuid)
// @Success      200 {string} string "Printable HTML"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /documents/{kind}/{id}/html [get]
func (h *DocumentHandler) HTML(c *gin.Context) {
	kind, id, templateID, ok := h.documentParams(c)
	if !ok {
		return
	}
	doc, err := h.exportService.RenderHTML(c.Request.Context(), principal(c), kind, id, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("X-Document-Number", doc.Number)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}

// PDF godoc
// @Summary      Export a document as PDF
// @Description  Downloads a document as {number}.pdf
// @Tags         documents
// @Produce      application/pdf
// @Param        kind path string true "Document kind" Enums(invoice, quote, delivery_note)
// @Param        id path string true "Document ID" format(uuid)
// @Param        template_id query string false "Template ID, the default template when omitted" format(uuid)
// @Success      200 {file} file "PDF attachment"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /documents/{kind}/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *gin.Context) {
	kind, id, templateID, ok := h.documentParams(c)
	if !ok {
		return
	}
	doc, err := h.exportService.ExportPDF(c.Request.Context(), principal(c), kind, id, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Header("X-Page-Count", strconv.Itoa(doc.Pages))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}

func (h *DocumentHandler) documentParams(c *gin.Context) (invoicing.DocumentKind, uuid.UUID, *uuid.UUID, bool) {
	kind := invoicing.DocumentKind(c.Param("kind"))
	if !kind.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Unknown document kind")
		return "", uuid.Nil, nil, false
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return "", uuid.Nil, nil, false
	}
	var templateID *uuid.UUID
	if raw := c.Query("template_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid template_id")
			return "", uuid.Nil, nil, false
		}
		templateID = &parsed
	}
	return kind, id, templateID, true
}
