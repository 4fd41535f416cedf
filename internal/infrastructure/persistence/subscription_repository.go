package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/subscription"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements subscription.Repository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByUser returns the user's subscription
func (r *GormSubscriptionRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByStatus lists subscriptions with the given stored status, oldest first
func (r *GormSubscriptionRepository) FindByStatus(ctx context.Context, status subscription.Status, filter shared.Filter) ([]subscription.Subscription, error) {
	f := filter.Normalize()
	var rows []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at ASC").
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	subs := make([]subscription.Subscription, len(rows))
	for i := range rows {
		subs[i] = *rows[i].ToDomain()
	}
	return subs, nil
}

// CountByStatus counts subscriptions with the given stored status
func (r *GormSubscriptionRepository) CountByStatus(ctx context.Context, status subscription.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *subscription.Subscription) error {
	if err := r.db.WithContext(ctx).Save(models.SubscriptionModelFromDomain(sub)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

var _ subscription.Repository = (*GormSubscriptionRepository)(nil)
