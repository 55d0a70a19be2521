// Package ratelimit implements per-client sliding-window admission control.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks request timestamps per client and admits a request only
// when fewer than limit timestamps remain inside the trailing period.
//
// The window map is the only structure shared across requests; one mutex
// makes every check-and-record atomic, so two concurrent requests from
// the same client can never both slip past the limit.
type Limiter struct {
	limit  int
	period time.Duration

	mu      sync.Mutex
	clients map[string][]time.Time

	now func() time.Time
}

func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		period:  period,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Limit returns the configured request limit.
func (l *Limiter) Limit() int { return l.limit }

// Period returns the configured window length.
func (l *Limiter) Period() time.Duration { return l.period }

// Allow reports whether the client may proceed and, when admitted,
// records the request. Check and record happen under one lock.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	window := l.evict(clientID, now)

	if len(window) >= l.limit {
		l.clients[clientID] = window
		return false
	}

	l.clients[clientID] = append(window, now)
	return true
}

// Remaining returns how many requests the client has left in the current
// window. Reading evicts expired timestamps but does not count as a request.
func (l *Limiter) Remaining(clientID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.evict(clientID, l.now())
	l.clients[clientID] = window

	if remaining := l.limit - len(window); remaining > 0 {
		return remaining
	}
	return 0
}

// ResetTime returns when the client's oldest recorded request leaves the
// window. ok is false when the client has no recorded requests.
func (l *Limiter) ResetTime(clientID string) (reset time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.evict(clientID, l.now())
	l.clients[clientID] = window

	if len(window) == 0 {
		return time.Time{}, false
	}
	return window[0].Add(l.period), true
}

// CleanupOldEntries drops clients whose most recent request is older than
// maxAge, bounding memory growth from one-off clients. The limiter has no
// internal timer; a scheduler calls this periodically.
func (l *Limiter) CleanupOldEntries(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxAge)
	for clientID, window := range l.clients {
		if len(window) == 0 || !window[len(window)-1].After(cutoff) {
			delete(l.clients, clientID)
		}
	}
}

// ClientCount returns the number of tracked clients, for tests and metrics.
func (l *Limiter) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// evict returns the client's window with timestamps at or before
// now-period removed. Caller holds the lock.
func (l *Limiter) evict(clientID string, now time.Time) []time.Time {
	window := l.clients[clientID]
	cutoff := now.Add(-l.period)

	i := 0
	for i < len(window) && !window[i].After(cutoff) {
		i++
	}
	return window[i:]
}
