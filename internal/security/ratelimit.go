package security

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/scrtkit/walletcore/internal/log"
)

// ErrRateLimitExceeded is returned when an operation exceeds its call
// budget within the sliding window.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RateLimiter enforces a sliding-window call limit per operation key.
// The prune-count-record sequence runs under one lock, so concurrent
// callers can never jointly exceed the limit.
type RateLimiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    map[string][]time.Time

	now func() time.Time // injectable for tests
}

// RateLimitStats describes the current window state for one operation key.
type RateLimitStats struct {
	Calls     int
	Limit     int
	Remaining int
	Window    time.Duration
}

// NewRateLimiter creates a rate limiter allowing maxCalls per window.
func NewRateLimiter(maxCalls int, window time.Duration) (*RateLimiter, error) {
	if maxCalls <= 0 {
		return nil, fmt.Errorf("max calls must be positive, got %d", maxCalls)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		calls:    make(map[string][]time.Time),
		now:      time.Now,
	}, nil
}

// Check records one call for the operation if it is within the limit, or
// returns ErrRateLimitExceeded without recording it.
func (rl *RateLimiter) Check(operation string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	live := rl.prune(operation, now)
	// prune compacts in place; the map entry must be refreshed even when
	// the call is rejected.
	rl.calls[operation] = live

	if len(live) >= rl.maxCalls {
		log.Security.Warn().
			Str("operation", operation).
			Int("calls", len(live)).
			Int("limit", rl.maxCalls).
			Msg("rate limit exceeded")
		return fmt.Errorf("%w for %q: %d/%d calls in %s window",
			ErrRateLimitExceeded, operation, len(live), rl.maxCalls, rl.window)
	}

	rl.calls[operation] = append(live, now)
	return nil
}

// Stats returns the live call count and remaining budget for an operation.
func (rl *RateLimiter) Stats(operation string) RateLimitStats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	live := rl.prune(operation, rl.now())
	rl.calls[operation] = live

	remaining := rl.maxCalls - len(live)
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitStats{
		Calls:     len(live),
		Limit:     rl.maxCalls,
		Remaining: remaining,
		Window:    rl.window,
	}
}

// prune drops timestamps outside the window. Caller must hold rl.mu.
func (rl *RateLimiter) prune(operation string, now time.Time) []time.Time {
	ts := rl.calls[operation]
	live := ts[:0]
	for _, t := range ts {
		if now.Sub(t) < rl.window {
			live = append(live, t)
		}
	}
	return live
}
