package subscription

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeSubscription is the aggregate type of subscriptions
const AggregateTypeSubscription = "Subscription"

// Event type constants
const (
	EventTypeSubscriptionSubmitted = "SubscriptionSubmitted"
	EventTypeSubscriptionApproved  = "SubscriptionApproved"
	EventTypeSubscriptionRejected  = "SubscriptionRejected"
)

// SubscriptionEvent is published on every subscription state change
type SubscriptionEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID     `json:"subscription_id"`
	Status         Status        `json:"status"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
}

// NewSubscriptionEvent creates a new SubscriptionEvent
func NewSubscriptionEvent(eventType string, s *Subscription) *SubscriptionEvent {
	return &SubscriptionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSubscription, s.ID, s.UserID),
		SubscriptionID:  s.ID,
		Status:          s.Status,
		PaymentMethod:   s.PaymentMethod,
	}
}
