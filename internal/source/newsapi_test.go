package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewsAPIFetchNormalizes(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var gotParams []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = append(gotParams, r.URL.RawQuery)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"articles": []map[string]any{
				{
					"source":      map[string]any{"name": "TechCrunch"},
					"title":       "Startup raises round for AI agents",
					"description": "Funding news.",
					"url":         "https://example.com/round",
					"publishedAt": now.Add(-2 * time.Hour).Format(time.RFC3339),
				},
				{
					"source":      map[string]any{"name": "Obscure Blog"},
					"title":       "[Removed]",
					"url":         "https://example.com/removed",
					"publishedAt": now.Format(time.RFC3339),
				},
				{
					// Duplicate URL within the same response is dropped.
					"source":      map[string]any{"name": "TechCrunch"},
					"title":       "Startup raises round for AI agents (syndicated)",
					"url":         "https://example.com/round",
					"publishedAt": now.Format(time.RFC3339),
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	api := &NewsAPI{
		APIKey:      "test-key",
		SearchTerms: []string{"artificial intelligence"},
		BaseURL:     srv.URL,
		now:         func() time.Time { return now },
	}

	articles, err := api.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article ([Removed] and duplicate dropped), got %d", len(articles))
	}

	a := articles[0]
	if a.Source != NameNewsAPI || a.URL != "https://example.com/round" || a.SourceID != a.URL {
		t.Fatalf("unexpected article identity: %+v", a)
	}
	// 50 base + 30 reputable outlet + (24 - 2) recency.
	if a.Score != 102 {
		t.Fatalf("popularity score = %d, want 102", a.Score)
	}
	if len(a.Comments) != 0 {
		t.Fatal("newsapi articles carry no comments")
	}

	if len(gotParams) != 1 {
		t.Fatalf("expected 1 upstream request, got %d", len(gotParams))
	}
	q := gotParams[0]
	for _, want := range []string{"q=artificial+intelligence", "sortBy=popularity", "language=en", "apiKey=test-key"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestNewsAPIPopularityScore(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &NewsAPI{now: func() time.Time { return now }}

	cases := []struct {
		name      string
		outlet    string
		published time.Time
		want      int
	}{
		{"unknown outlet, stale", "Random Site", now.Add(-48 * time.Hour), 50},
		{"reputable outlet, stale", "The Verge", now.Add(-48 * time.Hour), 80},
		{"unknown outlet, fresh", "Random Site", now.Add(-3 * time.Hour), 71},
		{"reputable outlet, just published", "Wired", now, 104},
		{"zero time gets no recency bonus", "Wired", time.Time{}, 80},
	}

	for _, tc := range cases {
		if got := api.popularityScore(tc.outlet, tc.published); got != tc.want {
			t.Errorf("%s: popularityScore = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestNewsAPIUpstreamRateLimitStopsFurtherTerms(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	api := &NewsAPI{
		APIKey:      "test-key",
		SearchTerms: []string{"ai", "machine learning", "llm"},
		BaseURL:     srv.URL,
	}

	articles, err := api.Fetch(context.Background(), 10)
	if err == nil {
		t.Fatal("expected the rate limit error to surface")
	}
	if len(articles) != 0 {
		t.Fatalf("expected no articles, got %d", len(articles))
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 upstream call after a 429, got %d", calls)
	}
}

func TestNewsAPIContinuesPastFailedTerm(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"articles": []map[string]any{
				{
					"source":      map[string]any{"name": "VentureBeat"},
					"title":       "New multimodal model benchmarks",
					"url":         "https://example.com/benchmarks",
					"publishedAt": now.Format(time.RFC3339),
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	api := &NewsAPI{
		APIKey:      "test-key",
		SearchTerms: []string{"broken", "working"},
		BaseURL:     srv.URL,
		now:         func() time.Time { return now },
	}

	articles, err := api.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("non-quota errors should not surface: %v", err)
	}
	if len(articles) != 1 || articles[0].URL != "https://example.com/benchmarks" {
		t.Fatalf("expected the working term's article, got %+v", articles)
	}
}
