// Package ratelimit implements the fixed-window request counter that guards
// the public demo chat. A client gets Limit requests per Window; the window
// starts on the first request and resets lazily on the next access after it
// has elapsed.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Policy struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of a single request against the counter.
type Decision struct {
	Allowed   bool
	Count     int
	Remaining int
	ResetAt   time.Time
}

// Store keeps the per-key counters. MemoryStore is process-local; RedisStore
// is shared by every instance pointing at the same Redis.
type Store interface {
	Take(ctx context.Context, key string, p Policy) (Decision, error)
}

type Limiter struct {
	store Store

	mu     sync.RWMutex
	policy Policy
}

func New(store Store, p Policy) *Limiter {
	return &Limiter{store: store, policy: p}
}

func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	return l.store.Take(ctx, key, l.Policy())
}

func (l *Limiter) Policy() Policy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy
}

// SetPolicy applies to the next request. Existing windows keep their reset time.
func (l *Limiter) SetPolicy(p Policy) {
	if p.Limit <= 0 || p.Window <= 0 {
		return
	}
	l.mu.Lock()
	l.policy = p
	l.mu.Unlock()
}

func remaining(limit, count int) int {
	if count >= limit {
		return 0
	}
	return limit - count
}
