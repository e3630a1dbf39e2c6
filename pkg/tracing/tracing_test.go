package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "graylogsync", cfg.ServiceName)
	assert.Equal(t, "http://localhost:14268/api/traces", cfg.JaegerURL)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestStartSpan_NoProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.operation")
	require.NotNil(t, span)
	defer span.End()

	// Helpers must be safe on non-recording spans.
	AddSpanAttributes(ctx, attribute.String("test.key", "test.value"), RunIDKey.String("run"))
	RecordError(ctx, errors.New("boom"))
}

func TestTraceHelpers(t *testing.T) {
	ctx := context.Background()

	_, span := TraceDirectoryOperation(ctx, "search", "dc=example,dc=org", "(cn=ops)")
	assert.NotNil(t, span)
	span.End()

	_, span = TracePlatformRequest(ctx, "GET", "users")
	assert.NotNil(t, span)
	span.End()

	_, span = TraceUserReconcile(ctx, "alice")
	assert.NotNil(t, span)
	span.End()
}
