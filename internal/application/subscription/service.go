// Package subscription runs the access gate: users submit a payment proof,
// administrators approve or reject it.
package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/subscription"
	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds subscription settings
type Config struct {
	DefaultPlanMonths int
	MaxUploadSize     int64
}

// Service handles subscription operations
type Service struct {
	repo   subscription.Repository
	blobs  common.BlobStore
	cfg    Config
	now    func() time.Time
	logger *zap.Logger

	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewService creates a new subscription Service
func NewService(repo subscription.Repository, blobs common.BlobStore, cfg Config, logger *zap.Logger) *Service {
	if cfg.DefaultPlanMonths <= 0 {
		cfg.DefaultPlanMonths = subscription.DefaultPlanMonths
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 5 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		blobs:  blobs,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetClock replaces the clock used for activation and expiry
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Get returns the caller's subscription with its effective status
func (s *Service) Get(ctx context.Context, p identity.Principal) (*SubscriptionResponse, error) {
	sub, err := s.repo.FindByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToSubscriptionResponse(sub, s.now())
	return &resp, nil
}

// Submit creates the caller's subscription request, or turns a rejected or
// expired one back into a pending request. proof is optional.
func (s *Service) Submit(ctx context.Context, p identity.Principal, req SubmitRequest, proof *common.Upload) (*SubscriptionResponse, error) {
	method := subscription.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}
	months := req.PlanMonths
	if months <= 0 {
		months = s.cfg.DefaultPlanMonths
	}

	existing, err := s.repo.FindByUser(ctx, p.UserID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	now := s.now()
	if existing != nil && existing.IsActive(now) {
		return nil, shared.NewDomainError("INVALID_STATE", "Subscription is already active")
	}

	proofURL, err := s.storeProof(ctx, p.UserID, proof)
	if err != nil {
		return nil, err
	}

	sub := existing
	if sub == nil {
		sub, err = subscription.Submit(p.UserID, method, proofURL, months)
	} else {
		err = sub.Resubmit(method, proofURL, months, now)
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("subscription submitted",
		zap.String("user_id", p.UserID.String()),
		zap.String("payment_method", string(method)),
		zap.Int("plan_months", sub.PlanMonths))
	common.Publish(ctx, s.eventPublisher, s.logger, sub)
	s.recordBacklog(ctx)

	resp := ToSubscriptionResponse(sub, now)
	return &resp, nil
}

// Approve activates the pending subscription of userID. Admin only.
func (s *Service) Approve(ctx context.Context, p identity.Principal, userID uuid.UUID) (*SubscriptionResponse, error) {
	return s.review(ctx, p, userID, func(sub *subscription.Subscription, now time.Time) error {
		return sub.Approve(p.UserID, now)
	})
}

// Reject declines the pending subscription of userID. Admin only.
func (s *Service) Reject(ctx context.Context, p identity.Principal, userID uuid.UUID, req RejectRequest) (*SubscriptionResponse, error) {
	return s.review(ctx, p, userID, func(sub *subscription.Subscription, _ time.Time) error {
		return sub.Reject(p.UserID, req.Reason)
	})
}

func (s *Service) review(ctx context.Context, p identity.Principal, userID uuid.UUID, apply func(*subscription.Subscription, time.Time) error) (*SubscriptionResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	sub, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := apply(sub, now); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.logger.Info("subscription reviewed",
		zap.String("user_id", userID.String()),
		zap.String("admin_id", p.UserID.String()),
		zap.String("status", string(sub.Status)))
	common.Publish(ctx, s.eventPublisher, s.logger, sub)
	s.recordBacklog(ctx)

	resp := ToSubscriptionResponse(sub, now)
	return &resp, nil
}

// ListPending lists subscriptions awaiting review, oldest first. Admin only.
func (s *Service) ListPending(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[SubscriptionResponse], error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	subs, err := s.repo.FindByStatus(ctx, subscription.StatusPending, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByStatus(ctx, subscription.StatusPending)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		items[i] = ToSubscriptionResponse(&subs[i], now)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// CheckAccess returns shared.ErrSubscriptionRequired unless the caller holds
// an active subscription. Admins always pass.
func (s *Service) CheckAccess(ctx context.Context, p identity.Principal) error {
	if p.IsZero() {
		return shared.ErrUnauthorized
	}
	if p.IsAdmin() {
		return nil
	}
	sub, err := s.repo.FindByUser(ctx, p.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.ErrSubscriptionRequired
		}
		return err
	}
	if !sub.IsActive(s.now()) {
		return shared.ErrSubscriptionRequired
	}
	return nil
}

// CountPendingSubscriptions implements telemetry.SubscriptionMetricsProvider
func (s *Service) CountPendingSubscriptions(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, subscription.StatusPending)
}

func (s *Service) storeProof(ctx context.Context, userID uuid.UUID, proof *common.Upload) (string, error) {
	if proof == nil || len(proof.Data) == 0 {
		return "", nil
	}
	contentType, ext, err := proof.Sniff(common.ProofTypes, s.cfg.MaxUploadSize)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/payment-proof.%s", userID, ext)
	url, err := s.blobs.Put(ctx, key, proof.Data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store payment proof: %w", err)
	}
	return url, nil
}

func (s *Service) recordBacklog(ctx context.Context) {
	if s.businessMetrics == nil {
		return
	}
	count, err := s.CountPendingSubscriptions(ctx)
	if err != nil {
		s.logger.Warn("failed to count pending subscriptions", zap.Error(err))
		return
	}
	s.businessMetrics.RecordPendingSubscriptions(ctx, count)
}

var _ telemetry.SubscriptionMetricsProvider = (*Service)(nil)
