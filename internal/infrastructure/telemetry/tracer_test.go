package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{ServiceName: "facturo"}, nil)
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestTracerProvider_NilIsDisabled(t *testing.T) {
	var tp *TracerProvider
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		desc := newSampler(tt.ratio).Description()
		assert.Contains(t, desc, "ParentBased")
		assert.Contains(t, desc, tt.want, "ratio %v", tt.ratio)
	}
}

func TestServiceResource(t *testing.T) {
	prev := ServiceVersion
	ServiceVersion = "1.4.2"
	t.Cleanup(func() { ServiceVersion = prev })

	res, err := serviceResource("facturo-backend")
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "facturo-backend", attrs["service.name"])
	assert.Equal(t, "1.4.2", attrs["service.version"])
}
