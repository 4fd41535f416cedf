package handler

import (
	"context"

	partnerapp "github.com/facturo/backend/internal/application/partner"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService is the supplier book used by SupplierHandler
type SupplierService interface {
	Create(ctx context.Context, p identity.Principal, req partnerapp.SupplierRequest) (*partnerapp.SupplierResponse, error)
	Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*partnerapp.SupplierResponse, error)
	List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[partnerapp.SupplierResponse], error)
	Update(ctx context.Context, p identity.Principal, id uuid.UUID, req partnerapp.SupplierRequest) (*partnerapp.SupplierResponse, error)
	Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error
}

// SupplierHandler handles /api/v1/suppliers
type SupplierHandler struct {
	BaseHandler
	supplierService SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService SupplierService, log *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		BaseHandler:     newBaseHandler(log),
		supplierService: supplierService,
	}
}

// Create godoc
// @Summary      Create a supplier
// @Description  Creates a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.SupplierRequest true "Supplier"
// @Success      201 {object} dto.Response{data=partnerapp.SupplierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetByID godoc
// @Summary      Get a supplier
// @Description  Returns one supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.SupplierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// List godoc
// @Summary      List suppliers
// @Description  Lists the caller's suppliers, searchable by name or email
// @Tags         suppliers
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]partnerapp.SupplierResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	var query partnerapp.ListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.supplierService.List(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Update godoc
// @Summary      Replace a supplier
// @Description  Replaces a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.SupplierRequest true "Supplier"
// @Success      200 {object} dto.Response{data=partnerapp.SupplierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete godoc
// @Summary      Delete a supplier
// @Description  Removes a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
