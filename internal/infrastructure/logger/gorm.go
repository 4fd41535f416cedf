package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm output to zap, tagged with the request and trace
// IDs of the statement context. Missing rows are not logged as errors.
type GormLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// GormLoggerOption configures a GormLogger.
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold warns about statements slower than d. Zero disables it.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = d }
}

// NewGormLogger logs gorm events at level and above. The slow threshold
// defaults to 200ms.
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{log: base.Named("gorm"), level: level, slow: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy logging at level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) printf(ctx context.Context, at gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < at {
		return
	}
	s := Enrich(ctx, l.log).Sugar()
	s.Logf(lvl, msg, data...)
}

// Info implements gormlogger.Interface.
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn implements gormlogger.Interface.
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error implements gormlogger.Interface.
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

// Trace logs one statement: failures at error, slow ones at warn and the
// rest at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slow > 0 && elapsed > l.slow

	var msg string
	var lvl zapcore.Level
	switch {
	case failed && l.level >= gormlogger.Error:
		msg, lvl = "SQL Error", zapcore.ErrorLevel
	case err == nil && slow && l.level >= gormlogger.Warn:
		msg, lvl = "Slow SQL", zapcore.WarnLevel
	case err == nil && l.level >= gormlogger.Info:
		msg, lvl = "SQL Query", zapcore.DebugLevel
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql)}
	if failed {
		fields = append(fields, zap.Error(err))
	}
	if slow {
		fields = append(fields, zap.Duration("threshold", l.slow))
	}
	Enrich(ctx, l.log).Log(lvl, msg, fields...)
}

// MapGormLogLevel maps the application log level onto gorm's.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
