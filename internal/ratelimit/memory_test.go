package ratelimit_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thornfield-systems/behavior-guard/internal/ratelimit"
)

func TestMemoryLimiter_AdmitsUpToLimitThenDenies(t *testing.T) {
	ctx := context.Background()
	limiter := ratelimit.NewMemoryLimiter(5)
	sessionID := uuid.New()

	for i := 0; i < 5; i++ {
		res, err := limiter.Check(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 5, res.Limit)
		assert.Equal(t, 4-i, res.Remaining)
	}

	res, err := limiter.Check(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Greater(t, res.RetryAfter.Seconds(), 0.0)
}

func TestMemoryLimiter_UnknownSessionStartsColdWithFullQuota(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(3)
	res, err := limiter.Check(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestMemoryLimiter_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := ratelimit.NewMemoryLimiter(1)
	a, b := uuid.New(), uuid.New()

	resA, err := limiter.Check(ctx, a)
	require.NoError(t, err)
	assert.True(t, resA.Allowed)

	resADenied, err := limiter.Check(ctx, a)
	require.NoError(t, err)
	assert.False(t, resADenied.Allowed)

	resB, err := limiter.Check(ctx, b)
	require.NoError(t, err)
	assert.True(t, resB.Allowed, "a different session must not be affected by another session's window")
}

func TestMemoryLimiter_ConcurrentChecksNeverExceedLimit(t *testing.T) {
	ctx := context.Background()
	limiter := ratelimit.NewMemoryLimiter(20)
	sessionID := uuid.New()

	var mu sync.Mutex
	admitted := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Check(ctx, sessionID)
			require.NoError(t, err)
			if res.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, admitted)
}

func TestMemoryLimiter_RespectsContextCancellation(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := limiter.Check(ctx, uuid.New())
	assert.Error(t, err)
}
