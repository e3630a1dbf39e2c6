package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_AllHealthy(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("a", func(ctx context.Context) error { return nil }, time.Second)
	h.AddCheck("b", func(ctx context.Context) error { return nil }, time.Second)

	status := h.CheckAll(context.Background())
	assert.True(t, status.Healthy())
	require.Len(t, status.Checks, 2)
	assert.Equal(t, "a", status.Checks[0].Name)
	assert.Equal(t, "healthy", status.Checks[1].Status)
}

func TestHealthChecker_FailureKeepsRunning(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("directory", func(ctx context.Context) error { return errors.New("bind refused") }, time.Second)
	ran := false
	h.AddCheck("platform", func(ctx context.Context) error { ran = true; return nil }, time.Second)

	status := h.CheckAll(context.Background())
	assert.False(t, status.Healthy())
	assert.True(t, ran)
	assert.Equal(t, "bind refused", status.Checks[0].Status)
}

func TestHealthChecker_Timeout(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)

	status := h.CheckAll(context.Background())
	assert.False(t, status.Healthy())
	assert.Equal(t, context.DeadlineExceeded.Error(), status.Checks[0].Status)
}
