package handler

import (
	"context"

	"github.com/facturo/backend/internal/application/common"
	subscriptionapp "github.com/facturo/backend/internal/application/subscription"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionService runs the manual subscription workflow
type SubscriptionService interface {
	Get(ctx context.Context, p identity.Principal) (*subscriptionapp.SubscriptionResponse, error)
	Submit(ctx context.Context, p identity.Principal, req subscriptionapp.SubmitRequest, proof *common.Upload) (*subscriptionapp.SubscriptionResponse, error)
	Approve(ctx context.Context, p identity.Principal, userID uuid.UUID) (*subscriptionapp.SubscriptionResponse, error)
	Reject(ctx context.Context, p identity.Principal, userID uuid.UUID, req subscriptionapp.RejectRequest) (*subscriptionapp.SubscriptionResponse, error)
	ListPending(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[subscriptionapp.SubscriptionResponse], error)
}

// SubscriptionHandler handles /api/v1/subscription and its admin review routes
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService SubscriptionService
	maxUploadSize       int64
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService SubscriptionService, maxUploadSize int64, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         newBaseHandler(log),
		subscriptionService: subscriptionService,
		maxUploadSize:       maxUploadSize,
	}
}

// Get godoc
// @Summary      Get my subscription
// @Description  Returns the caller's subscription as of now
// @Tags         subscription
// @Produce      json
// @Success      200 {object} dto.Response{data=subscriptionapp.SubscriptionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subscription [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	sub, err := h.subscriptionService.Get(c.Request.Context(), principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Submit godoc
// @Summary      Request a subscription
// @Description  Requests a subscription. Multipart form with payment_method, plan_months and an optional payment_proof file
// @Tags         subscription
// @Accept       multipart/form-data
// @Produce      json
// @Param        payment_method formData string true "Payment method" Enums(bank_transfer, mobile_money, cash, card)
// @Param        plan_months formData int false "Plan length in months" minimum(1) maximum(36) default(1)
// @Param        payment_proof formData file false "Payment proof (image or PDF)"
// @Success      201 {object} dto.Response{data=subscriptionapp.SubscriptionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subscription [post]
func (h *SubscriptionHandler) Submit(c *gin.Context) {
	var req subscriptionapp.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	proof, ok := h.formFile(c, "payment_proof", h.maxUploadSize, false)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Submit(c.Request.Context(), principal(c), req, proof)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// ListPending godoc
// @Summary      List pending subscriptions
// @Description  Lists the requests awaiting review, oldest first
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]subscriptionapp.SubscriptionResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/subscriptions/pending [get]
func (h *SubscriptionHandler) ListPending(c *gin.Context) {
	var query dto.ListRequest
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.subscriptionService.ListPending(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Approve godoc
// @Summary      Approve a subscription
// @Description  Activates a user's pending subscription
// @Tags         admin
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=subscriptionapp.SubscriptionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/subscriptions/{user_id}/approve [post]
func (h *SubscriptionHandler) Approve(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Approve(c.Request.Context(), principal(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Reject godoc
// @Summary      Reject a subscription
// @Description  Refuses a user's pending subscription with an optional reason
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Param        request body subscriptionapp.RejectRequest false "Reason"
// @Success      200 {object} dto.Response{data=subscriptionapp.SubscriptionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/subscriptions/{user_id}/reject [post]
func (h *SubscriptionHandler) Reject(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	var req subscriptionapp.RejectRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.subscriptionService.Reject(c.Request.Context(), principal(c), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}
