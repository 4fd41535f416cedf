// Package subscription gates access to business features behind an
// administrator-approved, time-limited subscription.
package subscription

import (
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the stored state of a subscription
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// PaymentMethod is how the user paid for the subscription
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
)

// IsValid checks if the payment method is accepted
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentBankTransfer, PaymentMobileMoney, PaymentCash, PaymentCard:
		return true
	}
	return false
}

// DefaultPlanMonths is the duration granted on approval when none is set
const DefaultPlanMonths = 12

// MaxPlanMonths bounds the duration of a single request
const MaxPlanMonths = 36

// planMonthsOrDefault applies the default to an unset duration and rejects
// anything above MaxPlanMonths
func planMonthsOrDefault(planMonths int) (int, error) {
	if planMonths <= 0 {
		return DefaultPlanMonths, nil
	}
	if planMonths > MaxPlanMonths {
		return 0, shared.NewDomainError("INVALID_PLAN", "Plan duration cannot exceed 36 months")
	}
	return planMonths, nil
}

// Subscription is the access grant of one user
type Subscription struct {
	shared.OwnedAggregateRoot
	Status          Status
	PaymentMethod   PaymentMethod
	PaymentProofURL string
	PlanMonths      int
	ActivatedAt     *time.Time
	ExpiresAt       *time.Time
	RejectionReason string
	ReviewedBy      *uuid.UUID
}

// Submit creates a pending subscription request
func Submit(userID uuid.UUID, method PaymentMethod, proofURL string, planMonths int) (*Subscription, error) {
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}
	planMonths, err := planMonthsOrDefault(planMonths)
	if err != nil {
		return nil, err
	}

	s := &Subscription{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Status:             StatusPending,
		PaymentMethod:      method,
		PaymentProofURL:    strings.TrimSpace(proofURL),
		PlanMonths:         planMonths,
	}
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionSubmitted, s))
	return s, nil
}

// Resubmit turns a rejected or expired subscription back into a pending request.
// An active, unexpired subscription cannot be resubmitted.
func (s *Subscription) Resubmit(method PaymentMethod, proofURL string, planMonths int, now time.Time) error {
	if s.EffectiveStatus(now) == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Subscription is already active")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}
	planMonths, err := planMonthsOrDefault(planMonths)
	if err != nil {
		return err
	}

	s.Status = StatusPending
	s.PaymentMethod = method
	if proofURL != "" {
		s.PaymentProofURL = strings.TrimSpace(proofURL)
	}
	s.PlanMonths = planMonths
	s.RejectionReason = ""
	s.ReviewedBy = nil
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionSubmitted, s))
	return nil
}

// Approve activates a pending subscription for PlanMonths starting at now
func (s *Subscription) Approve(adminID uuid.UUID, now time.Time) error {
	if s.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending subscriptions can be approved")
	}
	months := s.PlanMonths
	if months <= 0 {
		months = DefaultPlanMonths
	}
	expires := now.AddDate(0, months, 0)

	s.Status = StatusActive
	s.ActivatedAt = &now
	s.ExpiresAt = &expires
	s.ReviewedBy = &adminID
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionApproved, s))
	return nil
}

// Reject declines a pending subscription
func (s *Subscription) Reject(adminID uuid.UUID, reason string) error {
	if s.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending subscriptions can be rejected")
	}
	s.Status = StatusRejected
	s.RejectionReason = strings.TrimSpace(reason)
	s.ReviewedBy = &adminID
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionRejected, s))
	return nil
}

// EffectiveStatus is the status as seen at now: an active subscription whose
// expiry has passed reads as expired. Nothing is written.
func (s *Subscription) EffectiveStatus(now time.Time) Status {
	if s.Status == StatusActive && s.ExpiresAt != nil && s.ExpiresAt.Before(now) {
		return StatusExpired
	}
	return s.Status
}

// IsActive reports whether the subscription grants access at now
func (s *Subscription) IsActive(now time.Time) bool {
	return s.EffectiveStatus(now) == StatusActive
}
