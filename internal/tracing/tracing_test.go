package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "driveros-api"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}

func TestInitWithEndpoint(t *testing.T) {
	// The gRPC client connects lazily, so no collector is needed here.
	shutdown, err := Init(context.Background(), Config{
		Endpoint:    "localhost:4317",
		ServiceName: "driveros-api",
		Version:     "test",
		Environment: "test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
