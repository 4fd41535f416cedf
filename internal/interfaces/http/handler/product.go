package handler

import (
	"context"

	catalogapp "github.com/facturo/backend/internal/application/catalog"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService is the catalog used by ProductHandler
type ProductService interface {
	Create(ctx context.Context, p identity.Principal, req catalogapp.ProductRequest) (*catalogapp.ProductResponse, error)
	Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[catalogapp.ProductResponse], error)
	Update(ctx context.Context, p identity.Principal, id uuid.UUID, req catalogapp.ProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error
}

// ProductHandler handles /api/v1/products
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    newBaseHandler(log),
		productService: productService,
	}
}

// Create godoc
// @Summary      Create a product
// @Description  Adds a product or service to the catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get a product
// @Description  Returns one product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  Lists the caller's catalog, filterable by product_type
// @Tags         products
// @Produce      json
// @Param        search query string false "Search term"
// @Param        product_type query string false "Product type" Enums(product, service)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query catalogapp.ProductListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.productService.List(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Update godoc
// @Summary      Replace a product
// @Description  Replaces a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Removes a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
