package telemetry

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig tunes query and pool metrics. Zero durations take the
// defaults of 200ms and 15s.
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

// DBMetrics records query counts, latencies and connection pool gauges.
type DBMetrics struct {
	pool      *Gauge
	poolMax   *Gauge
	queries   *Counter
	latency   *Histogram
	slow      *Counter
	config    DBMetricsConfig
	logger    *zap.Logger
	mu        sync.RWMutex
	sqlDB     *sql.DB
	stop      chan struct{}
	stopOnce  sync.Once
	collector sync.WaitGroup
}

// NewDBMetrics registers the database instruments on meter.
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}
	m := &DBMetrics{config: cfg, logger: logger, stop: make(chan struct{})}

	var err error
	if m.pool, err = NewGauge(meter, "db_pool_connections",
		"Connections in the pool by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolMax, err = NewGauge(meter, "db_pool_connections_max",
		"Maximum open connections", "{connection}"); err != nil {
		return nil, err
	}
	if m.queries, err = NewCounter(meter, "db_query_total",
		"Queries by SQL verb", "{query}"); err != nil {
		return nil, err
	}
	if m.latency, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slow, err = NewCounter(meter, "db_slow_query_total",
		"Queries slower than the configured threshold", "{query}"); err != nil {
		return nil, err
	}
	return m, nil
}

// SetSQLDB sets the pool observed by StartPoolStatsCollection.
func (m *DBMetrics) SetSQLDB(sqlDB *sql.DB) {
	m.mu.Lock()
	m.sqlDB = sqlDB
	m.mu.Unlock()
}

// StartPoolStatsCollection samples pool stats every PoolStatsInterval until
// Stop is called or ctx ends.
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context) {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()
	if sqlDB == nil {
		m.logger.Warn("Pool stats collection not started: no sql.DB set")
		return
	}

	m.collector.Add(1)
	go func() {
		defer m.collector.Done()
		ticker := time.NewTicker(m.config.PoolStatsInterval)
		defer ticker.Stop()

		m.collectPoolStats(ctx, sqlDB)
		for {
			select {
			case <-ticker.C:
				m.collectPoolStats(ctx, sqlDB)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) collectPoolStats(ctx context.Context, sqlDB *sql.DB) {
	stats := sqlDB.Stats()
	m.poolMax.Record(ctx, int64(stats.MaxOpenConnections))
	m.pool.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.pool.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.pool.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool stats collection. It is idempotent.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.collector.Wait()
	})
}

// RecordQuery counts one query and flags it when slower than the threshold.
func (m *DBMetrics) RecordQuery(ctx context.Context, verb, table string, elapsed time.Duration) {
	if verb == "" {
		verb = "OTHER"
	}
	m.queries.Inc(ctx, AttrDBOperation.String(verb))
	m.latency.RecordDuration(ctx, elapsed, AttrDBOperation.String(verb))
	if elapsed > m.config.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slow.Inc(ctx, AttrDBTable.String(table))
	}
}

// DBMetricsPlugin feeds every gorm statement into DBMetrics.
type DBMetricsPlugin struct {
	metrics *DBMetrics
	logger  *zap.Logger
}

// NewDBMetricsPlugin wraps metrics as a gorm.Plugin.
func NewDBMetricsPlugin(metrics *DBMetrics, logger *zap.Logger) *DBMetricsPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBMetricsPlugin{metrics: metrics, logger: logger}
}

// Name implements gorm.Plugin.
func (p *DBMetricsPlugin) Name() string { return "db_metrics" }

// Initialize implements gorm.Plugin.
func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	hooks := gormHooks{prefix: "db_metrics", after: func(db *gorm.DB, verb string, elapsed time.Duration) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		p.metrics.RecordQuery(ctx, verb, db.Statement.Table, elapsed)
	}}
	if err := hooks.register(db); err != nil {
		return err
	}
	p.logger.Info("Database metrics enabled",
		zap.Duration("slow_query_threshold", p.metrics.config.SlowQueryThreshold))
	return nil
}
