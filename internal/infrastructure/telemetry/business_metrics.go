package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks issued documents, invoiced amounts and the
// subscription review backlog.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	documentsIssuedTotal *Counter
	invoicedAmountTotal  *Counter
	numberConflictsTotal *Counter
	statusChangesTotal   *Counter

	pendingSubscriptions *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	subscriptionProvider SubscriptionMetricsProvider
}

// SubscriptionMetricsProvider reports the subscription backlog without the
// telemetry layer depending on the subscription domain.
type SubscriptionMetricsProvider interface {
	CountPendingSubscriptions(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter                metric.Meter
	Logger               *zap.Logger
	SubscriptionProvider SubscriptionMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:                cfg.Meter,
		logger:               logger,
		stopChan:             make(chan struct{}),
		subscriptionProvider: cfg.SubscriptionProvider,
	}

	var err error
	bm.documentsIssuedTotal, err = NewCounter(cfg.Meter,
		"facturo_documents_issued_total",
		"Total number of numbered documents issued",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	bm.invoicedAmountTotal, err = NewCounter(cfg.Meter,
		"facturo_invoiced_amount_total",
		"Total invoiced amount, tax included, in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.numberConflictsTotal, err = NewCounter(cfg.Meter,
		"facturo_number_conflicts_total",
		"Document inserts retried after a duplicate number",
		"{conflicts}",
	)
	if err != nil {
		return nil, err
	}

	bm.statusChangesTotal, err = NewCounter(cfg.Meter,
		"facturo_invoice_status_changes_total",
		"Invoice status changes by target status",
		"{changes}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingSubscriptions, err = NewGauge(cfg.Meter,
		"facturo_subscriptions_pending",
		"Subscriptions waiting for an administrator review",
		"{subscriptions}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Document Metrics
// =============================================================================

// RecordDocumentIssued counts one numbered document of family
func (bm *BusinessMetrics) RecordDocumentIssued(ctx context.Context, family string) {
	if bm == nil {
		return
	}
	bm.documentsIssuedTotal.Inc(ctx, AttrDocumentFamily.String(family))
}

// RecordInvoiceIssued counts an invoice and adds its TTC amount in cents
func (bm *BusinessMetrics) RecordInvoiceIssued(ctx context.Context, family string, total decimal.Decimal) {
	if bm == nil {
		return
	}
	bm.RecordDocumentIssued(ctx, family)
	bm.invoicedAmountTotal.Add(ctx, total.Mul(decimal.NewFromInt(100)).IntPart(),
		AttrDocumentFamily.String(family),
	)
}

// RecordNumberConflict counts a retry caused by a duplicate number
func (bm *BusinessMetrics) RecordNumberConflict(ctx context.Context, family string) {
	if bm == nil {
		return
	}
	bm.numberConflictsTotal.Inc(ctx, AttrDocumentFamily.String(family))
}

// RecordStatusChange counts an invoice status change
func (bm *BusinessMetrics) RecordStatusChange(ctx context.Context, status string) {
	if bm == nil {
		return
	}
	bm.statusChangesTotal.Inc(ctx, AttrInvoiceStatus.String(status))
}

// RecordPendingSubscriptions records the current review backlog
func (bm *BusinessMetrics) RecordPendingSubscriptions(ctx context.Context, count int64) {
	if bm == nil {
		return
	}
	bm.pendingSubscriptions.Record(ctx, count, AttrSubscription.String("pending"))
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection samples gauge metrics every interval (default 5
// minutes) until Stop is called or ctx is done. It does not block.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectSubscriptionMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectSubscriptionMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectSubscriptionMetrics(ctx context.Context) {
	if bm.subscriptionProvider == nil {
		bm.logger.Debug("No subscription provider configured, skipping subscription metrics collection")
		return
	}
	count, err := bm.subscriptionProvider.CountPendingSubscriptions(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count pending subscriptions", zap.Error(err))
		return
	}
	bm.RecordPendingSubscriptions(ctx, count)
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
