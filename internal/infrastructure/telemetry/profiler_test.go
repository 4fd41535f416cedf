package telemetry

import (
	"sync"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresServerAndApplication(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "facturo"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")
}

func TestProfiler_StopConcurrent(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Stop())
		}()
	}
	wg.Wait()
}

func TestProfileTypes(t *testing.T) {
	base := profileTypes(ProfilerConfig{})
	assert.Contains(t, base, pyroscope.ProfileCPU)
	assert.NotContains(t, base, pyroscope.ProfileMutexCount)

	withContention := profileTypes(ProfilerConfig{Contention: true})
	assert.Len(t, withContention, len(base)+4)
	assert.Contains(t, withContention, pyroscope.ProfileBlockDuration)
}
