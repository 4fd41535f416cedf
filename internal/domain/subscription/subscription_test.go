package subscription

import (
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

func pending(t *testing.T) *Subscription {
	t.Helper()
	s, err := Submit(uuid.New(), PaymentBankTransfer, "proofs/receipt.pdf", 0)
	require.NoError(t, err)
	return s
}

func TestSubmit(t *testing.T) {
	s := pending(t)
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, DefaultPlanMonths, s.PlanMonths)
	require.Len(t, s.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeSubscriptionSubmitted, s.GetDomainEvents()[0].EventType())

	_, err := Submit(uuid.New(), PaymentMethod("barter"), "", 1)
	assert.Error(t, err)

	_, err = Submit(uuid.New(), PaymentCash, "", 48)
	assert.Error(t, err)
}

func TestApprove(t *testing.T) {
	s := pending(t)
	admin := uuid.New()

	require.NoError(t, s.Approve(admin, now))

	assert.Equal(t, StatusActive, s.Status)
	require.NotNil(t, s.ExpiresAt)
	assert.Equal(t, now.AddDate(1, 0, 0), *s.ExpiresAt)
	assert.Equal(t, admin, *s.ReviewedBy)
	assert.True(t, s.IsActive(now))

	var domainErr *shared.DomainError
	require.ErrorAs(t, s.Approve(admin, now), &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestReject(t *testing.T) {
	s := pending(t)
	require.NoError(t, s.Reject(uuid.New(), " proof unreadable "))

	assert.Equal(t, StatusRejected, s.Status)
	assert.Equal(t, "proof unreadable", s.RejectionReason)
	assert.False(t, s.IsActive(now))
	assert.Error(t, s.Reject(uuid.New(), "again"))
	assert.Error(t, s.Approve(uuid.New(), now))
}

func TestEffectiveStatus(t *testing.T) {
	s := pending(t)
	s.PlanMonths = 1
	require.NoError(t, s.Approve(uuid.New(), now))

	assert.Equal(t, StatusActive, s.EffectiveStatus(now.AddDate(0, 0, 29)))
	assert.Equal(t, StatusExpired, s.EffectiveStatus(now.AddDate(0, 1, 1)))
	assert.Equal(t, StatusActive, s.Status, "reading never mutates the stored status")
}

func TestResubmit(t *testing.T) {
	t.Run("after rejection", func(t *testing.T) {
		s := pending(t)
		require.NoError(t, s.Reject(uuid.New(), "no"))
		require.NoError(t, s.Resubmit(PaymentMobileMoney, "proofs/new.png", 6, now))

		assert.Equal(t, StatusPending, s.Status)
		assert.Empty(t, s.RejectionReason)
		assert.Equal(t, 6, s.PlanMonths)
	})

	t.Run("after expiry", func(t *testing.T) {
		s := pending(t)
		require.NoError(t, s.Approve(uuid.New(), now))
		assert.NoError(t, s.Resubmit(PaymentCard, "", 12, now.AddDate(2, 0, 0)))
	})

	t.Run("while active", func(t *testing.T) {
		s := pending(t)
		require.NoError(t, s.Approve(uuid.New(), now))
		assert.Error(t, s.Resubmit(PaymentCard, "", 12, now))
	})

	t.Run("plan longer than allowed", func(t *testing.T) {
		s := pending(t)
		require.NoError(t, s.Reject(uuid.New(), "no"))
		s.ClearDomainEvents()

		err := s.Resubmit(PaymentCash, "", 1200, now)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PLAN", domainErr.Code)
		assert.Equal(t, StatusRejected, s.Status)
		assert.Equal(t, DefaultPlanMonths, s.PlanMonths)
		assert.Empty(t, s.GetDomainEvents())
	})

	t.Run("unset plan falls back to default", func(t *testing.T) {
		s := pending(t)
		require.NoError(t, s.Reject(uuid.New(), "no"))
		require.NoError(t, s.Resubmit(PaymentCash, "", 0, now))
		assert.Equal(t, DefaultPlanMonths, s.PlanMonths)
	})
}
