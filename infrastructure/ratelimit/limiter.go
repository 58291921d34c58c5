// Package ratelimit enforces a minimum spacing between consecutive calls to
// a quota-limited provider.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/felixgeelhaar/workflow-go/domain/provider"
)

// DefaultRequestsPerMinute applies when a provider record sets no quota.
const DefaultRequestsPerMinute = 12

// Limiter spaces calls at least one interval apart. The interval carries a
// 10% buffer over the provider's stated quota to absorb clock and network
// jitter.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	limiter  *rate.Limiter
}

// Interval returns the minimum spacing for a requests-per-minute quota:
// ceil(60000ms / rpm * 1.1).
func Interval(requestsPerMinute int) time.Duration {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	ms := math.Ceil(60000.0 / float64(requestsPerMinute) * 1.1)
	return time.Duration(ms) * time.Millisecond
}

// New creates a limiter for a requests-per-minute quota. The first call
// passes immediately; each subsequent call waits out the remainder of the
// interval since the previous one.
func New(requestsPerMinute int) *Limiter {
	interval := Interval(requestsPerMinute)
	return &Limiter{
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the minimum interval since the last call has elapsed,
// or until the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	limiter := l.limiter
	l.mu.Unlock()
	return limiter.Wait(ctx)
}

// Reset clears the last-call record so the next call passes immediately.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiter = rate.NewLimiter(rate.Every(l.interval), 1)
}

// MinInterval returns the configured minimum spacing.
func (l *Limiter) MinInterval() time.Duration {
	return l.interval
}

// Process-wide limiters, one per provider key, protecting a global quota
// shared by every run targeting that provider.
var (
	sharedMu sync.Mutex
	shared   = make(map[provider.Key]*Limiter)
)

// Shared returns the process-wide limiter for a provider, creating it on
// first use with the given quota. Later callers share the first instance
// regardless of their own quota value.
func Shared(key provider.Key, requestsPerMinute int) *Limiter {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if l, ok := shared[key]; ok {
		return l
	}
	l := New(requestsPerMinute)
	shared[key] = l
	return l
}
