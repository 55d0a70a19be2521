package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/newsfusion/ainews/internal/cache"
	"github.com/newsfusion/ainews/internal/ratelimit"
	"github.com/newsfusion/ainews/internal/source"
)

type stubProvider struct {
	calls int
}

func (p *stubProvider) GetTrendingNews(ctx context.Context) []source.Article {
	p.calls++
	return []source.Article{{Title: "cached story", URL: "https://example.com/s"}}
}

func TestNewRejectsInvalidCronSpec(t *testing.T) {
	c := cache.New("", time.Minute)
	l := ratelimit.New(10, time.Hour)

	if _, err := New("not a cron spec", "0 * * * *", &stubProvider{}, c, l, 20, time.Hour); err == nil {
		t.Fatal("expected an error for an invalid refresh spec")
	}
	if _, err := New("*/10 * * * *", "also bad", &stubProvider{}, c, l, 20, time.Hour); err == nil {
		t.Fatal("expected an error for an invalid cleanup spec")
	}
}

func TestRefreshSkipsWhenCacheDisabled(t *testing.T) {
	provider := &stubProvider{}
	s, err := New("*/10 * * * *", "0 * * * *", provider, cache.New("", time.Minute), ratelimit.New(10, time.Hour), 20, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.refresh()

	if provider.calls != 0 {
		t.Fatalf("refresh without a cache still aggregated %d times", provider.calls)
	}
}

func TestSweepDropsIdleClients(t *testing.T) {
	l := ratelimit.New(10, time.Hour)
	l.Allow("client-a")

	s, err := New("*/10 * * * *", "0 * * * *", &stubProvider{}, cache.New("", time.Minute), l, 20, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// maxIdle of zero makes every client stale immediately.
	s.sweep()

	if got := l.ClientCount(); got != 0 {
		t.Fatalf("ClientCount after sweep = %d, want 0", got)
	}
}
