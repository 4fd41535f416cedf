package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig holds the OTLP log export configuration.
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
}

// LoggerProvider ships zap records to the collector next to the local
// output. The zero value is disabled.
type LoggerProvider struct {
	sdk    *sdklog.LoggerProvider
	scope  string
	logger *zap.Logger
}

func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	if !cfg.Enabled {
		return &LoggerProvider{}, nil
	}
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}
	lp, err := newLoggerProvider(cfg.ServiceName, sdklog.NewBatchProcessor(exporter), logger)
	if err != nil {
		return nil, err
	}
	global.SetLoggerProvider(lp.sdk)
	lp.logger.Info("Log export enabled", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return lp, nil
}

func newLoggerProvider(serviceName string, processor sdklog.Processor, logger *zap.Logger) (*LoggerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, err
	}
	return &LoggerProvider{
		sdk:    sdklog.NewLoggerProvider(sdklog.WithResource(res), sdklog.WithProcessor(processor)),
		scope:  serviceName,
		logger: logger,
	}, nil
}

func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.sdk != nil
}

// Bridge tees base into the exporter. Only records at floor or above are
// exported; base keeps its own level.
func (lp *LoggerProvider) Bridge(base *zap.Logger, floor zapcore.Level) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	export, err := zapcore.NewIncreaseLevelCore(otelzap.NewCore(lp.scope, otelzap.WithLoggerProvider(lp.sdk)), floor)
	if err != nil {
		lp.logger.Warn("Log export level ignored", zap.Error(err))
		export = otelzap.NewCore(lp.scope, otelzap.WithLoggerProvider(lp.sdk))
	}
	return base.WithOptions(zap.WrapCore(func(local zapcore.Core) zapcore.Core {
		return zapcore.NewTee(local, export)
	}))
}

// Shutdown flushes buffered records.
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.IsEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := lp.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}
