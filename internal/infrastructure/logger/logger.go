package logger

import (
	"errors"
	"strings"
	"syscall"

	"github.com/facturo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger from the [log] section. Output is stdout,
// stderr or a file path; Format "console" gives colored human output and
// anything else JSON.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	enc.EncodeDuration = zapcore.MillisDurationEncoder

	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	output := cfg.Output
	if output == "" {
		output = "stdout"
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// ParseLevel accepts zap level names plus "warning". Unknown names are info.
func ParseLevel(name string) zapcore.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return zapcore.WarnLevel
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Sync flushes l. Terminals reject fsync with EINVAL or ENOTTY, which is
// not worth reporting.
func Sync(l *zap.Logger) error {
	err := l.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
