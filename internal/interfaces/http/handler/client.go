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

// ClientService is the client book used by ClientHandler
type ClientService interface {
	Create(ctx context.Context, p identity.Principal, req partnerapp.ClientRequest) (*partnerapp.ClientResponse, error)
	Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*partnerapp.ClientResponse, error)
	List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[partnerapp.ClientResponse], error)
	Update(ctx context.Context, p identity.Principal, id uuid.UUID, req partnerapp.ClientRequest) (*partnerapp.ClientResponse, error)
	Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error
}

// ClientHandler handles /api/v1/clients
type ClientHandler struct {
	BaseHandler
	clientService ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService ClientService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{
		BaseHandler:   newBaseHandler(log),
		clientService: clientService,
	}
}

// Create godoc
// @Summary      Create a client
// @Description  Creates a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.ClientRequest true "Client"
// @Success      201 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req partnerapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// GetByID godoc
// @Summary      Get a client
// @Description  Returns one client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	client, err := h.clientService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// List godoc
// @Summary      List clients
// @Description  Lists the caller's clients, searchable by name or email
// @Tags         clients
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]partnerapp.ClientResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var query partnerapp.ListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.clientService.List(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Update godoc
// @Summary      Replace a client
// @Description  Replaces a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body partnerapp.ClientRequest true "Client"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete godoc
// @Summary      Delete a client
// @Description  Removes a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
