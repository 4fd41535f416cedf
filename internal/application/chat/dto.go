package chat

import (
	"time"

	"github.com/facturo/backend/internal/domain/chat"
	"github.com/google/uuid"
)

// SendMessageRequest is a new chat message
// @Description Request body for posting a support message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000" example:"Bonjour, ma facture FAC-25-0004 affiche un mauvais taux."`
}

// MessageResponse represents a chat message in API responses
type MessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	SenderID  uuid.UUID  `json:"sender_id"`
	Content   string     `json:"content"`
	FromAdmin bool       `json:"from_admin"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ConversationResponse is one line of the admin inbox
type ConversationResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}

// MarkReadResponse reports how many messages were stamped
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

// ToMessageResponse converts a domain message
func ToMessageResponse(m *chat.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		FromAdmin: m.FromAdmin,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}
