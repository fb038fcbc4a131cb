package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(limit int, window time.Duration) (*Limiter, *MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore().WithClock(clock.Now)
	return New(store, Policy{Limit: limit, Window: window}), store, clock
}

func TestMemoryLimiterAllowsUpToLimit(t *testing.T) {
	limiter, _, _ := newTestLimiter(10, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 10-i, d.Remaining)
	}

	for i := 11; i <= 13; i++ {
		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, d.Allowed, "request %d should be rejected", i)
		assert.Equal(t, 0, d.Remaining)
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	limiter, _, clock := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	first, _ := limiter.Allow(ctx, "k")
	limiter.Allow(ctx, "k")
	d, _ := limiter.Allow(ctx, "k")
	require.False(t, d.Allowed)
	assert.Equal(t, first.ResetAt, d.ResetAt)

	// The boundary instant still belongs to the old window.
	clock.Advance(time.Minute)
	d, _ = limiter.Allow(ctx, "k")
	assert.False(t, d.Allowed)

	clock.Advance(time.Millisecond)
	d, _ = limiter.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter, _, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	a, _ := limiter.Allow(ctx, "a")
	b, _ := limiter.Allow(ctx, "b")
	a2, _ := limiter.Allow(ctx, "a")

	assert.True(t, a.Allowed)
	assert.True(t, b.Allowed)
	assert.False(t, a2.Allowed)
}

func TestMemoryLimiterConcurrentRequests(t *testing.T) {
	limiter, _, _ := newTestLimiter(50, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := limiter.Allow(ctx, "shared")
			if err == nil && d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMemoryStoreSweep(t *testing.T) {
	limiter, store, clock := newTestLimiter(5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limiter.Allow(ctx, fmt.Sprintf("ip-%d", i))
	}
	clock.Advance(30 * time.Second)
	limiter.Allow(ctx, "late")

	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 4, store.Len())

	clock.Advance(31 * time.Second)
	assert.Equal(t, 3, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestLimiterSetPolicy(t *testing.T) {
	limiter, _, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	limiter.Allow(ctx, "k")
	d, _ := limiter.Allow(ctx, "k")
	require.False(t, d.Allowed)

	limiter.SetPolicy(Policy{Limit: 3, Window: time.Minute})
	d, _ = limiter.Allow(ctx, "k")
	assert.True(t, d.Allowed)

	// Invalid policies are ignored.
	limiter.SetPolicy(Policy{Limit: 0, Window: time.Minute})
	assert.Equal(t, 3, limiter.Policy().Limit)
}
