// Package ratelimit implements the fixed-window counter that gates image
// uploads per client address.
//
// A window opens on the first request for a key, or on the first request
// after the previous window's reset time has passed. Within a window a
// request is allowed while fewer than limit requests have been allowed.
// State lives in process memory only: it resets on restart and is not
// shared between instances.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLimit and DefaultWindow are the upload policy: 10 uploads per
	// 5 minutes per client.
	DefaultLimit  = 10
	DefaultWindow = 5 * time.Minute
)

// Result is the outcome of a Check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
	// Wait is RetryAfter measured on the limiter's clock. Zero when allowed.
	Wait time.Duration
}

// RetryAfter is how long the caller has to wait for the window to reset,
// rounded up to whole seconds.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetTime.Sub(now)
	if d <= 0 {
		return 0
	}
	return (d + time.Second - 1).Truncate(time.Second)
}

type window struct {
	count     int
	resetTime time.Time
}

// Limiter is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(opts ...Option) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check counts one request for key against limit per windowLen and reports
// whether it is allowed. Rejected requests are not counted.
func (l *Limiter) Check(key string, limit int, windowLen time.Duration) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetTime) {
		w = &window{resetTime: now.Add(windowLen)}
		l.windows[key] = w
	}

	if w.count >= limit {
		r := Result{Allowed: false, Remaining: 0, ResetTime: w.resetTime}
		r.Wait = r.RetryAfter(now)
		return r
	}

	w.count++
	return Result{Allowed: true, Remaining: limit - w.count, ResetTime: w.resetTime}
}

// Cleanup removes every key whose window has expired and returns how many
// were removed.
func (l *Limiter) Cleanup() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.windows {
		if now.After(w.resetTime) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (l *Limiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Len reports how many keys are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
