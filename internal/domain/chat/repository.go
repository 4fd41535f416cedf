package chat

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageRepository defines the interface for chat persistence
type MessageRepository interface {
	// Create inserts a message
	Create(ctx context.Context, message *Message) error

	// FindByConversation lists the messages of userID's conversation, oldest first
	FindByConversation(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Message, error)

	// CountByConversation counts the messages of userID's conversation
	CountByConversation(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkRead stamps unread messages of the conversation written by the other side.
	// fromAdmin selects which side's messages are marked.
	MarkRead(ctx context.Context, userID uuid.UUID, fromAdmin bool, at time.Time) (int64, error)

	// ListConversations summarizes every conversation, most recent first
	ListConversations(ctx context.Context, filter shared.Filter) ([]Conversation, error)

	// CountConversations counts users with at least one message
	CountConversations(ctx context.Context) (int64, error)
}
