package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled keeps the global provider", func(t *testing.T) {
		before := otel.GetTracerProvider()

		shutdown, err := Setup(ctx, TracingConfig{Enabled: false})
		require.NoError(t, err)
		assert.NoError(t, shutdown(ctx))
		assert.Equal(t, before, otel.GetTracerProvider())
	})

	t.Run("enabled without endpoint", func(t *testing.T) {
		_, err := Setup(ctx, TracingConfig{Enabled: true})
		assert.Error(t, err)
	})

	t.Run("enabled installs an sdk provider", func(t *testing.T) {
		before := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(before) })

		shutdown, err := Setup(ctx, TracingConfig{
			Enabled:     true,
			Endpoint:    "127.0.0.1:4317",
			Insecure:    true,
			ServiceName: "etfpanel-test",
		})
		require.NoError(t, err)

		_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		assert.True(t, ok)

		sctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		_ = shutdown(sctx)
	})
}
