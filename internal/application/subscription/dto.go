package subscription

import (
	"time"

	"github.com/facturo/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// SubmitRequest is the form part of a subscription request. The payment
// proof travels as a separate multipart file.
// @Description Multipart form for requesting a subscription
type SubmitRequest struct {
	PaymentMethod string `form:"payment_method" json:"payment_method" binding:"required,oneof=bank_transfer mobile_money cash card" example:"bank_transfer"`
	PlanMonths    int    `form:"plan_months" json:"plan_months" binding:"omitempty,min=1,max=36" example:"12"`
}

// RejectRequest carries the reason shown to the user
// @Description Request body for refusing a subscription
type RejectRequest struct {
	Reason string `json:"reason" binding:"max=500" example:"Preuve de paiement illisible"`
}

// SubscriptionResponse represents a subscription in API responses.
// Status is the effective status at read time.
type SubscriptionResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Status          string     `json:"status"`
	PaymentMethod   string     `json:"payment_method"`
	PaymentProofURL string     `json:"payment_proof_url,omitempty"`
	PlanMonths      int        `json:"plan_months"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToSubscriptionResponse converts a subscription as seen at now
func ToSubscriptionResponse(s *subscription.Subscription, now time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		Status:          string(s.EffectiveStatus(now)),
		PaymentMethod:   string(s.PaymentMethod),
		PaymentProofURL: s.PaymentProofURL,
		PlanMonths:      s.PlanMonths,
		ActivatedAt:     s.ActivatedAt,
		ExpiresAt:       s.ExpiresAt,
		RejectionReason: s.RejectionReason,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
