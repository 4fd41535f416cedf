package chat

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeMessage = "ChatMessage"

	EventTypeMessageSent = "ChatMessageSent"
)

// MessageSentEvent notifies both sides of a conversation
type MessageSentEvent struct {
	shared.BaseDomainEvent
	MessageID uuid.UUID `json:"message_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	FromAdmin bool      `json:"from_admin"`
	Content   string    `json:"content"`
}

// NewMessageSentEvent creates a new MessageSentEvent
func NewMessageSentEvent(m *Message) *MessageSentEvent {
	return &MessageSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageSent, AggregateTypeMessage, m.ID, m.UserID),
		MessageID:       m.ID,
		SenderID:        m.SenderID,
		FromAdmin:       m.FromAdmin,
		Content:         m.Content,
	}
}
