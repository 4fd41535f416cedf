package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingExporter keeps exported log bodies in memory.
type recordingExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) exported() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
}

func TestLoggerProvider_BridgeExportsFromMinLevel(t *testing.T) {
	exporter := &recordingExporter{}
	lp, err := newLoggerProvider("facturo-test", sdklog.NewSimpleProcessor(exporter), nil)
	require.NoError(t, err)
	defer func() { _ = lp.Shutdown(context.Background()) }()

	core, local := observer.New(zapcore.DebugLevel)
	log := lp.Bridge(zap.New(core), zapcore.WarnLevel)
	log.Info("invoice listed")
	log.Warn("number conflict")
	log.Error("pdf render failed")

	assert.Equal(t, 3, local.Len())
	assert.Equal(t, []string{"number conflict", "pdf render failed"}, exporter.exported())
}
