package handler

import (
	"context"

	printingapp "github.com/facturo/backend/internal/application/printing"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateService manages the invoice templates used by TemplateHandler
type TemplateService interface {
	Create(ctx context.Context, p identity.Principal, req printingapp.TemplateRequest) (*printingapp.TemplateResponse, error)
	Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*printingapp.TemplateResponse, error)
	List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[printingapp.TemplateResponse], error)
	Update(ctx context.Context, p identity.Principal, id uuid.UUID, req printingapp.TemplateRequest) (*printingapp.TemplateResponse, error)
	Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error
	SetDefault(ctx context.Context, p identity.Principal, id uuid.UUID) (*printingapp.TemplateResponse, error)
	GetDefault(ctx context.Context, p identity.Principal) (*printingapp.TemplateResponse, error)
}

// TemplateHandler handles /api/v1/templates
type TemplateHandler struct {
	BaseHandler
	templateService TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService TemplateService, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		BaseHandler:     newBaseHandler(log),
		templateService: templateService,
	}
}

// Create godoc
// @Summary      Create a template
// @Description  Creates a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        request body printingapp.TemplateRequest true "Template"
// @Success      201 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req printingapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tpl, err := h.templateService.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tpl)
}

// GetByID godoc
// @Summary      Get a template
// @Description  Returns one template
// @Tags         templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates/{id} [get]
func (h *TemplateHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tpl, err := h.templateService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// List godoc
// @Summary      List templates
// @Description  Lists the caller's templates, the default first
// @Tags         templates
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]printingapp.TemplateResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	var query printingapp.TemplateListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.templateService.List(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Update godoc
// @Summary      Replace a template
// @Description  Replaces a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body printingapp.TemplateRequest true "Template"
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req printingapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tpl, err := h.templateService.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// Delete godoc
// @Summary      Delete a template
// @Description  Removes a template
// @Tags         templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetDefault godoc
// @Summary      Make a template the default
// @Description  Makes a template the caller's default; the previous default is cleared in the same transaction
// @Tags         templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates/{id}/default [post]
func (h *TemplateHandler) SetDefault(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tpl, err := h.templateService.SetDefault(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// GetDefault godoc
// @Summary      Get the default template
// @Description  Returns the caller's default template, or the built-in one
// @Tags         templates
// @Produce      json
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /templates/default [get]
func (h *TemplateHandler) GetDefault(c *gin.Context) {
	tpl, err := h.templateService.GetDefault(c.Request.Context(), principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}
