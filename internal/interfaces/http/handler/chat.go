package handler

import (
	"context"

	chatapp "github.com/facturo/backend/internal/application/chat"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService is the support chat between users and admins
type ChatService interface {
	Send(ctx context.Context, p identity.Principal, conversation uuid.UUID, req chatapp.SendMessageRequest) (*chatapp.MessageResponse, error)
	ListConversation(ctx context.Context, p identity.Principal, conversation uuid.UUID, filter shared.Filter) (*shared.Paginated[chatapp.MessageResponse], error)
	MarkRead(ctx context.Context, p identity.Principal, conversation uuid.UUID) (*chatapp.MarkReadResponse, error)
	ListConversations(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[chatapp.ConversationResponse], error)
}

// ChatHandler handles /api/v1/chat and /api/v1/admin/chat.
// A conversation is keyed by the user it belongs to: users only reach their
// own, admins pick one with :user_id.
type ChatHandler struct {
	BaseHandler
	chatService ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: newBaseHandler(log),
		chatService: chatService,
	}
}

// ListMessages godoc
// @Summary      List my support messages
// @Description  Lists the caller's conversation, newest first
// @Tags         chat
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]chatapp.MessageResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chat/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	h.listMessages(c, principal(c).UserID)
}

// SendMessage godoc
// @Summary      Send a support message
// @Description  Posts to the caller's conversation
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request body chatapp.SendMessageRequest true "Message"
// @Success      201 {object} dto.Response{data=chatapp.MessageResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	h.sendMessage(c, principal(c).UserID)
}

// MarkRead godoc
// @Summary      Mark support replies as read
// @Description  Marks the admin replies of the caller's conversation as read
// @Tags         chat
// @Produce      json
// @Success      200 {object} dto.Response{data=chatapp.MarkReadResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chat/messages/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	h.markRead(c, principal(c).UserID)
}

// ListConversations godoc
// @Summary      List support conversations
// @Description  Admin inbox, most recent activity first
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]chatapp.ConversationResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/chat/conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	var query dto.ListRequest
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.chatService.ListConversations(c.Request.Context(), principal(c), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// AdminListMessages godoc
// @Summary      List a user's support messages
// @Description  Lists one user's conversation
// @Tags         admin
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]chatapp.MessageResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/chat/{user_id}/messages [get]
func (h *ChatHandler) AdminListMessages(c *gin.Context) {
	if userID, ok := h.pathID(c, "user_id"); ok {
		h.listMessages(c, userID)
	}
}

// AdminSendMessage godoc
// @Summary      Reply to a user
// @Description  Replies in one user's conversation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Param        request body chatapp.SendMessageRequest true "Message"
// @Success      201 {object} dto.Response{data=chatapp.MessageResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/chat/{user_id}/messages [post]
func (h *ChatHandler) AdminSendMessage(c *gin.Context) {
	if userID, ok := h.pathID(c, "user_id"); ok {
		h.sendMessage(c, userID)
	}
}

// AdminMarkRead godoc
// @Summary      Mark a user's messages as read
// @Description  Marks the user's messages of a conversation as read
// @Tags         admin
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=chatapp.MarkReadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/chat/{user_id}/messages/read [post]
func (h *ChatHandler) AdminMarkRead(c *gin.Context) {
	if userID, ok := h.pathID(c, "user_id"); ok {
		h.markRead(c, userID)
	}
}

func (h *ChatHandler) listMessages(c *gin.Context, conversation uuid.UUID) {
	var query dto.ListRequest
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.chatService.ListConversation(c.Request.Context(), principal(c), conversation, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

func (h *ChatHandler) sendMessage(c *gin.Context, conversation uuid.UUID) {
	var req chatapp.SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.chatService.Send(c.Request.Context(), principal(c), conversation, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

func (h *ChatHandler) markRead(c *gin.Context, conversation uuid.UUID) {
	resp, err := h.chatService.MarkRead(c.Request.Context(), principal(c), conversation)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
