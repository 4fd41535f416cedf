package persistence

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/chat"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChatMessageRepository implements chat.MessageRepository using GORM
type GormChatMessageRepository struct {
	db *gorm.DB
}

// NewGormChatMessageRepository creates a new GormChatMessageRepository
func NewGormChatMessageRepository(db *gorm.DB) *GormChatMessageRepository {
	return &GormChatMessageRepository{db: db}
}

// Create inserts a message
func (r *GormChatMessageRepository) Create(ctx context.Context, message *chat.Message) error {
	return r.db.WithContext(ctx).Create(models.ChatMessageModelFromDomain(message)).Error
}

// FindByConversation lists the messages of userID's conversation, oldest first
func (r *GormChatMessageRepository) FindByConversation(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]chat.Message, error) {
	f := filter.Normalize()
	var rows []models.ChatMessageModel
	if err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Order("created_at ASC").
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	messages := make([]chat.Message, len(rows))
	for i := range rows {
		messages[i] = *rows[i].ToDomain()
	}
	return messages, nil
}

// CountByConversation counts the messages of userID's conversation
func (r *GormChatMessageRepository) CountByConversation(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChatMessageModel{}).Scopes(ownedBy(userID)).Count(&count).Error
	return count, err
}

// MarkRead stamps the unread messages written by one side of the conversation
func (r *GormChatMessageRepository) MarkRead(ctx context.Context, userID uuid.UUID, fromAdmin bool, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ChatMessageModel{}).
		Scopes(ownedBy(userID)).
		Where("from_admin = ? AND read_at IS NULL", fromAdmin).
		Updates(map[string]any{"read_at": at, "updated_at": at})
	return result.RowsAffected, result.Error
}

type conversationRow struct {
	UserID      uuid.UUID
	Email       string
	UnreadCount int64
}

// ListConversations summarizes every conversation, most recent first.
// Unread counts only include messages written by users.
func (r *GormChatMessageRepository) ListConversations(ctx context.Context, filter shared.Filter) ([]chat.Conversation, error) {
	f := filter.Normalize()
	var rows []conversationRow
	if err := r.db.WithContext(ctx).
		Table("chat_messages AS m").
		Select(`m.user_id AS user_id, COALESCE(u.email, '') AS email, MAX(m.created_at) AS last_message_at,
			SUM(CASE WHEN m.from_admin = ? AND m.read_at IS NULL THEN 1 ELSE 0 END) AS unread_count`, false).
		Joins("LEFT JOIN users u ON u.id = m.user_id").
		Group("m.user_id, u.email").
		Order("last_message_at DESC").
		Offset(f.Offset()).
		Limit(f.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	conversations := make([]chat.Conversation, 0, len(rows))
	for _, row := range rows {
		var last models.ChatMessageModel
		if err := r.db.WithContext(ctx).
			Scopes(ownedBy(row.UserID)).
			Order("created_at DESC").
			First(&last).Error; err != nil {
			return nil, translateNotFound(err)
		}
		conversations = append(conversations, chat.Conversation{
			UserID:        row.UserID,
			Email:         row.Email,
			LastMessage:   last.Content,
			LastMessageAt: last.CreatedAt,
			UnreadCount:   row.UnreadCount,
		})
	}
	return conversations, nil
}

// CountConversations counts users with at least one message
func (r *GormChatMessageRepository) CountConversations(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChatMessageModel{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

var _ chat.MessageRepository = (*GormChatMessageRepository)(nil)
