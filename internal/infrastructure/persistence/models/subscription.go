package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// SubscriptionModel is the persistence model for user subscriptions, one per user
type SubscriptionModel struct {
	AggregateModel
	UserID          uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex"`
	Status          subscription.Status        `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod   subscription.PaymentMethod `gorm:"type:varchar(30);not null"`
	PaymentProofURL string                     `gorm:"column:payment_proof_url;type:text"`
	PlanMonths      int                        `gorm:"not null;default:12"`
	ActivatedAt     *time.Time
	ExpiresAt       *time.Time
	RejectionReason string     `gorm:"type:text"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "user_subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription
func (m *SubscriptionModel) ToDomain() *subscription.Subscription {
	s := &subscription.Subscription{
		Status:          m.Status,
		PaymentMethod:   m.PaymentMethod,
		PaymentProofURL: m.PaymentProofURL,
		PlanMonths:      m.PlanMonths,
		ActivatedAt:     m.ActivatedAt,
		ExpiresAt:       m.ExpiresAt,
		RejectionReason: m.RejectionReason,
		ReviewedBy:      m.ReviewedBy,
	}
	s.BaseAggregateRoot = m.ToAggregateRoot()
	s.UserID = m.UserID
	return s
}

// SubscriptionModelFromDomain creates a persistence model from a domain Subscription
func SubscriptionModelFromDomain(s *subscription.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{
		UserID:          s.UserID,
		Status:          s.Status,
		PaymentMethod:   s.PaymentMethod,
		PaymentProofURL: s.PaymentProofURL,
		PlanMonths:      s.PlanMonths,
		ActivatedAt:     s.ActivatedAt,
		ExpiresAt:       s.ExpiresAt,
		RejectionReason: s.RejectionReason,
		ReviewedBy:      s.ReviewedBy,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
