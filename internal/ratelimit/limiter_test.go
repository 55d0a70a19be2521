package ratelimit

import (
	"testing"
	"time"
)

// testClock drives the limiter deterministically.
type testClock struct {
	current time.Time
}

func (c *testClock) now() time.Time { return c.current }

func (c *testClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestLimiter(limit int, period time.Duration) (*Limiter, *testClock) {
	clock := &testClock{current: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(limit, period)
	l.now = clock.now
	return l, clock
}

func TestAllowWithinWindow(t *testing.T) {
	l, clock := newTestLimiter(3, 10*time.Second)

	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("request %d should be admitted", i+1)
		}
		clock.advance(time.Second)
	}

	if l.Allow("client") {
		t.Fatal("4th request inside the window should be rejected")
	}

	// After the window fully elapses the client is admitted again.
	clock.advance(10 * time.Second)
	if !l.Allow("client") {
		t.Fatal("request after window elapsed should be admitted")
	}
}

func TestAllowEvictsAtExactBoundary(t *testing.T) {
	l, clock := newTestLimiter(1, 10*time.Second)

	if !l.Allow("client") {
		t.Fatal("first request should be admitted")
	}

	// A timestamp exactly period old is evicted (<= boundary).
	clock.advance(10 * time.Second)
	if !l.Allow("client") {
		t.Fatal("request exactly one period later should be admitted")
	}
}

func TestClientIsolation(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)

	l.Allow("alice")
	l.Allow("alice")
	if l.Allow("alice") {
		t.Fatal("alice should be over her limit")
	}

	if !l.Allow("bob") {
		t.Fatal("bob's window must be unaffected by alice")
	}
}

func TestRemaining(t *testing.T) {
	l, clock := newTestLimiter(3, 10*time.Second)

	if got := l.Remaining("client"); got != 3 {
		t.Fatalf("Remaining before any request = %d, want 3", got)
	}

	l.Allow("client")
	l.Allow("client")
	if got := l.Remaining("client"); got != 1 {
		t.Fatalf("Remaining after 2 requests = %d, want 1", got)
	}

	// Remaining is a read: it must not consume budget.
	if got := l.Remaining("client"); got != 1 {
		t.Fatalf("repeated Remaining changed the count: %d", got)
	}

	clock.advance(11 * time.Second)
	if got := l.Remaining("client"); got != 3 {
		t.Fatalf("Remaining after window elapsed = %d, want 3", got)
	}
}

func TestResetTime(t *testing.T) {
	l, clock := newTestLimiter(3, 10*time.Second)

	if _, ok := l.ResetTime("client"); ok {
		t.Fatal("ResetTime without requests should report absent")
	}

	first := clock.current
	l.Allow("client")
	clock.advance(2 * time.Second)
	l.Allow("client")

	reset, ok := l.ResetTime("client")
	if !ok {
		t.Fatal("ResetTime should be present after requests")
	}
	if want := first.Add(10 * time.Second); !reset.Equal(want) {
		t.Fatalf("ResetTime = %s, want %s", reset, want)
	}
}

func TestCleanupOldEntries(t *testing.T) {
	l, clock := newTestLimiter(5, time.Minute)

	l.Allow("stale")
	clock.advance(2 * time.Hour)
	l.Allow("fresh")

	l.CleanupOldEntries(time.Hour)

	if got := l.ClientCount(); got != 1 {
		t.Fatalf("ClientCount after cleanup = %d, want 1", got)
	}

	// The fresh client's window is intact.
	if got := l.Remaining("fresh"); got != 4 {
		t.Fatalf("Remaining(fresh) = %d, want 4", got)
	}
}

func TestConcurrentSameClientNeverOveradmits(t *testing.T) {
	l := New(10, time.Minute)

	const attempts = 100
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			results <- l.Allow("client")
		}()
	}

	admitted := 0
	for i := 0; i < attempts; i++ {
		if <-results {
			admitted++
		}
	}

	if admitted != 10 {
		t.Fatalf("admitted %d concurrent requests, want exactly 10", admitted)
	}
}
