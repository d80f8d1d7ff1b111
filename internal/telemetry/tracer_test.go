package telemetry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-service/internal/config"
)

func TestNewTracerProviderDisabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, tp.Enabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProviderEnabled(t *testing.T) {
	cfg := config.TelemetryConfig{
		Enabled:       true,
		Endpoint:      "127.0.0.1:4317",
		Insecure:      true,
		SamplingRatio: 0.5,
		ServiceName:   "contracts-service-test",
	}
	tp, err := NewTracerProvider(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, tp.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tp.Shutdown(ctx)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, Sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased")
}
