package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormSubscriptionMetricsProvider implements SubscriptionMetricsProvider using GORM.
type GormSubscriptionMetricsProvider struct {
	db *gorm.DB
}

// NewGormSubscriptionMetricsProvider creates a new GormSubscriptionMetricsProvider.
func NewGormSubscriptionMetricsProvider(db *gorm.DB) *GormSubscriptionMetricsProvider {
	return &GormSubscriptionMetricsProvider{db: db}
}

// CountPendingSubscriptions counts subscriptions waiting for review.
func (p *GormSubscriptionMetricsProvider) CountPendingSubscriptions(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("user_subscriptions").
		Where("status = ?", "pending").
		Count(&count).Error
	return count, err
}
