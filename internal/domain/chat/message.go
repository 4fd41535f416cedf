package chat

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxContentLength is the maximum number of characters in one message
const MaxContentLength = 4000

// Message is one entry of the support conversation between a user and the
// administrators. UserID identifies the conversation, SenderID the author.
type Message struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID
	SenderID  uuid.UUID
	Content   string
	FromAdmin bool
	ReadAt    *time.Time
}

// NewMessage creates a message in the conversation of userID
func NewMessage(userID, senderID uuid.UUID, content string, fromAdmin bool) (*Message, error) {
	if userID == uuid.Nil || senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SENDER", "Conversation and sender are required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Message cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Message cannot exceed 4000 characters")
	}
	if !fromAdmin && senderID != userID {
		return nil, shared.NewDomainError("INVALID_SENDER", "Users can only write in their own conversation")
	}

	m := &Message{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		SenderID:          senderID,
		Content:           content,
		FromAdmin:         fromAdmin,
	}
	m.AddDomainEvent(NewMessageSentEvent(m))
	return m, nil
}

// IsRead reports whether the recipient has read the message
func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}

// MarkRead stamps the message as read. Already-read messages keep their stamp.
func (m *Message) MarkRead(at time.Time) {
	if m.ReadAt != nil {
		return
	}
	m.ReadAt = &at
	m.Touch()
}

// Conversation summarizes the messages of one user for the admin inbox
type Conversation struct {
	UserID        uuid.UUID
	Email         string
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   int64
}
