package authority

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// RateLimiter admits at most limit events per key within a sliding window
type RateLimiter struct {
	clock  clockwork.Clock
	limit  int
	window time.Duration

	mu     sync.Mutex
	events map[string][]time.Time // key -> admitted event times, oldest first
}

// NewRateLimiter creates a limiter. A non-positive limit admits everything.
func NewRateLimiter(clock clockwork.Clock, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clock:  clock,
		limit:  limit,
		window: window,
		events: make(map[string][]time.Time),
	}
}

// Allow records an event for key if it is under the limit
func (l *RateLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	recent := l.events[key]
	i := 0
	for i < len(recent) && !recent[i].After(cutoff) {
		i++
	}
	recent = recent[i:]

	if len(recent) >= l.limit {
		l.events[key] = recent
		return false
	}
	l.events[key] = append(recent, now)
	return true
}
