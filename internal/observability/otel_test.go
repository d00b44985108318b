package observability

import (
	"context"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingEnvRatioClamped(t *testing.T) {
	t.Setenv("OTEL_SAMPLER_RATIO", "3")
	var env tracingEnv
	require.NoError(t, envconfig.Process("OTEL", &env))
	assert.False(t, env.Enabled)
	assert.Equal(t, 1.0, env.ratio())

	env.SamplerRatio = -0.5
	assert.Equal(t, 0.0, env.ratio())
	env.SamplerRatio = 0.25
	assert.Equal(t, 0.25, env.ratio())
}

func TestInitOTelDisabledReturnsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{ServiceName: "lessonplan-test"})
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
