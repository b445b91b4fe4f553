// Package ratelimit implements per-client fixed-window admission control for
// the REST surface. The window is approximate: a single reset timestamp per
// client, so bursts straddling a window boundary can briefly exceed the
// budget.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Limiter admits up to maxRequests per client key per window. Expired
// entries are reclaimed lazily on access and by the periodic sweep in Run.
type Limiter struct {
	mu          sync.Mutex
	clients     map[string]*window
	window      time.Duration
	maxRequests int
	sweepEvery  time.Duration
}

func New(windowDur time.Duration, maxRequests int, sweepEvery time.Duration) *Limiter {
	return &Limiter{
		clients:     make(map[string]*window),
		window:      windowDur,
		maxRequests: maxRequests,
		sweepEvery:  sweepEvery,
	}
}

// Allow checks admission for key at time now. When the budget is exhausted
// it returns false and the remaining window time as a retry-after hint.
func (l *Limiter) Allow(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok || now.After(w.resetAt) {
		l.clients[key] = &window{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	if w.count >= l.maxRequests {
		return false, w.resetAt.Sub(now)
	}

	w.count++
	return true, 0
}

// Run sweeps expired windows until ctx is cancelled. Without the sweep,
// entries for clients that never return would persist for the process
// lifetime.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := l.Sweep(now); n > 0 {
				slog.Debug("rate limiter sweep", "evicted", n)
			}
		}
	}
}

// Sweep removes every window that expired before now and returns how many
// entries were evicted.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, w := range l.clients {
		if now.After(w.resetAt) {
			delete(l.clients, key)
			evicted++
		}
	}
	return evicted
}

// Size returns the number of tracked clients.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
