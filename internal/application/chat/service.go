// Package chat runs the support conversation between each user and the
// administrators.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/chat"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles chat operations. A conversation is identified by the id
// of the user it belongs to.
type Service struct {
	repo   chat.MessageRepository
	now    func() time.Time
	logger *zap.Logger

	eventPublisher shared.EventPublisher
}

// NewService creates a new chat Service
func NewService(repo chat.MessageRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, now: time.Now, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// canAccess allows admins into every conversation and users into their own
func canAccess(p identity.Principal, conversation uuid.UUID) error {
	if p.IsZero() {
		return shared.ErrUnauthorized
	}
	if !p.IsAdmin() && p.UserID != conversation {
		return shared.ErrForbidden
	}
	return nil
}

// Send writes a message in conversation. Users write to support in their
// own conversation; admins answer in any.
func (s *Service) Send(ctx context.Context, p identity.Principal, conversation uuid.UUID, req SendMessageRequest) (*MessageResponse, error) {
	if err := canAccess(p, conversation); err != nil {
		return nil, err
	}
	fromAdmin := p.IsAdmin() && p.UserID != conversation
	msg, err := chat.NewMessage(conversation, p.UserID, req.Content, fromAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	s.logger.Debug("chat message sent",
		zap.String("conversation", conversation.String()),
		zap.Bool("from_admin", fromAdmin))
	common.Publish(ctx, s.eventPublisher, s.logger, msg)

	resp := ToMessageResponse(msg)
	return &resp, nil
}

// ListConversation lists the messages of conversation, oldest first
func (s *Service) ListConversation(ctx context.Context, p identity.Principal, conversation uuid.UUID, filter shared.Filter) (*shared.Paginated[MessageResponse], error) {
	if err := canAccess(p, conversation); err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	messages, err := s.repo.FindByConversation(ctx, conversation, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByConversation(ctx, conversation)
	if err != nil {
		return nil, err
	}

	items := make([]MessageResponse, len(messages))
	for i := range messages {
		items[i] = ToMessageResponse(&messages[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// MarkRead stamps the messages the caller has received in conversation:
// admin messages for the user, user messages for an admin.
func (s *Service) MarkRead(ctx context.Context, p identity.Principal, conversation uuid.UUID) (*MarkReadResponse, error) {
	if err := canAccess(p, conversation); err != nil {
		return nil, err
	}
	readerIsSupport := p.IsAdmin() && p.UserID != conversation
	marked, err := s.repo.MarkRead(ctx, conversation, !readerIsSupport, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return &MarkReadResponse{Marked: marked}, nil
}

// ListConversations is the admin inbox, most recent conversation first
func (s *Service) ListConversations(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[ConversationResponse], error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	conversations, err := s.repo.ListConversations(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountConversations(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ConversationResponse, len(conversations))
	for i, c := range conversations {
		items[i] = ConversationResponse{
			UserID:        c.UserID,
			Email:         c.Email,
			LastMessage:   c.LastMessage,
			LastMessageAt: c.LastMessageAt,
			UnreadCount:   c.UnreadCount,
		}
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
