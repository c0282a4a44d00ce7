package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/acadia-dev/acadia/pkg/api"
)

// RateLimiter checks whether an authenticated request should be allowed.
type RateLimiter interface {
	Allow(ctx context.Context, principal *api.Principal) error
}

// ErrTooManyRequests is returned when a principal exceeds its write budget.
var ErrTooManyRequests = errors.New("rate limit exceeded")

// InProcessLimiter is a sliding-window rate limiter that tracks request
// counts per principal in memory. Zero requests-per-minute disables it.
type InProcessLimiter struct {
	rpm      int
	mu       sync.Mutex
	counters map[int64]*counter
}

type counter struct {
	count    int
	windowAt time.Time
}

// NewInProcessLimiter creates a limiter allowing rpm authenticated
// requests per principal per minute.
func NewInProcessLimiter(rpm int) *InProcessLimiter {
	return &InProcessLimiter{
		rpm:      rpm,
		counters: make(map[int64]*counter),
	}
}

// Allow checks if the request is within the limit. Fails open when
// disabled.
func (l *InProcessLimiter) Allow(_ context.Context, principal *api.Principal) error {
	if l.rpm <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.counters[principal.ID]
	if !ok || now.Sub(c.windowAt) >= time.Minute {
		l.counters[principal.ID] = &counter{count: 1, windowAt: now}
		return nil
	}

	c.count++
	if c.count > l.rpm {
		return ErrTooManyRequests
	}
	return nil
}
