package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/chat"
	"github.com/google/uuid"
)

// ChatMessageModel is the persistence model for support chat messages
type ChatMessageModel struct {
	AggregateModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_user_created,priority:1"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"type:text;not null"`
	FromAdmin bool      `gorm:"not null;default:false"`
	ReadAt    *time.Time
}

// TableName returns the table name for GORM
func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

// ToDomain converts the persistence model to a domain Message
func (m *ChatMessageModel) ToDomain() *chat.Message {
	return &chat.Message{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		SenderID:          m.SenderID,
		Content:           m.Content,
		FromAdmin:         m.FromAdmin,
		ReadAt:            m.ReadAt,
	}
}

// ChatMessageModelFromDomain creates a persistence model from a domain Message
func ChatMessageModelFromDomain(msg *chat.Message) *ChatMessageModel {
	m := &ChatMessageModel{
		UserID:    msg.UserID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		FromAdmin: msg.FromAdmin,
		ReadAt:    msg.ReadAt,
	}
	m.FromDomainAggregateRoot(msg.BaseAggregateRoot)
	return m
}
