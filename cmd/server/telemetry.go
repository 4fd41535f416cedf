package main

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/infrastructure/persistence"
	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// telemetryStack holds the OpenTelemetry providers and the profiler. Every
// member is a no-op when its feature is disabled.
type telemetryStack struct {
	tracer   *telemetry.TracerProvider
	meters   *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
	dbStats  *telemetry.DBMetrics
	// logger tees to the OTLP exporter when log export is enabled
	logger *zap.Logger
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) *telemetryStack {
	tc := cfg.Telemetry
	t := &telemetryStack{logger: log}

	var err error
	t.tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	t.meters, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled && tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsInterval,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	t.logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	t.logger = t.logs.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	t.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           tc.ProfilingEnabled,
		ServerAddress:     tc.ProfilerServerAddress,
		ApplicationName:   tc.ServiceName,
		BasicAuthUser:     tc.ProfilerBasicAuthUser,
		BasicAuthPassword: tc.ProfilerBasicAuthPassword,
		Contention:        tc.ProfilerContention,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	// span profiles need both a running profiler and real spans
	if t.profiler.IsEnabled() && t.tracer.IsEnabled() {
		if err := t.tracer.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles disabled", zap.Error(err))
		}
	}

	return t
}

// instrumentDatabase registers the otelgorm tracing plugin and the query
// metrics plugin on db
func instrumentDatabase(ctx context.Context, cfg *config.Config, db *persistence.Database, t *telemetryStack, log *zap.Logger) {
	tc := cfg.Telemetry
	if tc.Enabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          tc.DBTraceEnabled,
			LogFullSQL:       tc.DBLogFullSQL,
			SlowQueryThresh:  tc.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !tc.DBLogFullSQL,
		}, log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}

	if !t.meters.IsEnabled() {
		return
	}
	dbMetrics, err := telemetry.NewDBMetrics(t.meters.Meter("facturo.db"), telemetry.DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: tc.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Database metrics disabled", zap.Error(err))
		return
	}
	if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
		log.Warn("Database metrics plugin not registered", zap.Error(err))
		return
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		dbMetrics.SetSQLDB(sqlDB)
		dbMetrics.StartPoolStatsCollection(ctx)
	}
	t.dbStats = dbMetrics
}

// shutdown flushes exporters in reverse start order
func (t *telemetryStack) shutdown(log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if t.dbStats != nil {
		t.dbStats.Stop()
	}
	if err := t.profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := t.logs.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if err := t.meters.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := t.tracer.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
}
