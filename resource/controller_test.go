package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	rc := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, rc.AcquireMemory(60))
	assert.ErrorIs(t, rc.AcquireMemory(50), ErrMemoryLimitExceeded)
	assert.Equal(t, int64(60), rc.MemoryUsage())

	rc.ReleaseMemory(60)
	require.NoError(t, rc.AcquireMemory(100))
	assert.Equal(t, int64(100), rc.MemoryUsage())
	assert.Equal(t, int64(100), rc.MemoryLimit())
}

func TestWorkers(t *testing.T) {
	rc := NewController(Config{MaxWorkers: 2})
	ctx := context.Background()

	require.NoError(t, rc.AcquireWorker(ctx))
	require.NoError(t, rc.AcquireWorker(ctx))

	ctx2, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, rc.AcquireWorker(ctx2))

	rc.ReleaseWorker()
	require.NoError(t, rc.AcquireWorker(ctx))
	assert.Equal(t, 2, rc.MaxWorkers())
}

func TestNilController(t *testing.T) {
	var rc *Controller
	ctx := context.Background()

	require.NoError(t, rc.AcquireMemory(1<<40))
	rc.ReleaseMemory(1)
	require.NoError(t, rc.AcquireWorker(ctx))
	rc.ReleaseWorker()
	require.NoError(t, rc.AcquireIO(ctx, 1<<30))
	assert.Equal(t, 1, rc.MaxWorkers())
	assert.Zero(t, rc.MemoryUsage())
}

func TestAcquireIOLargerThanBurst(t *testing.T) {
	rc := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	require.NoError(t, rc.AcquireIO(context.Background(), 1<<20+10))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, rc.AcquireIO(ctx, 1<<20))
}

func TestAcquireIOCanceled(t *testing.T) {
	rc := NewController(Config{IOLimitBytesPerSec: 10})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, rc.AcquireIO(ctx, 100))
}
