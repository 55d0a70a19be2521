package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newHNServer(t *testing.T, ids []int, items map[int]map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ids)
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/item/"), ".json")
		var id int
		_, _ = fmt.Sscanf(idStr, "%d", &id)
		item, ok := items[id]
		if !ok {
			_, _ = w.Write([]byte("null"))
			return
		}
		_ = json.NewEncoder(w).Encode(item)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHackerNewsFetchFiltersAndNormalizes(t *testing.T) {
	now := time.Now().Unix()

	items := map[int]map[string]any{
		1: {
			"id": 1, "type": "story", "title": "New LLM inference engine released",
			"url": "https://example.com/llm-engine", "score": 321, "time": now,
			"kids": []int{10, 11, 12},
		},
		2: {
			"id": 2, "type": "story", "title": "My favorite hiking routes",
			"url": "https://example.com/hiking", "score": 50, "time": now,
		},
		3: {
			"id": 3, "type": "job", "title": "AI startup hiring engineers",
			"score": 1, "time": now,
		},
		// Story without a URL falls back to the HN item page.
		4: {
			"id": 4, "type": "story", "title": "Ask HN: best way to learn machine learning?",
			"text": "Looking for resources.", "score": 88, "time": now,
		},
		10: {"id": 10, "type": "comment", "by": "alice", "text": "Great throughput numbers.", "time": now},
		11: {"id": 11, "type": "comment", "text": "anon observation", "time": now},
		12: {"id": 12, "type": "comment", "deleted": true, "time": now},
	}

	srv := newHNServer(t, []int{1, 2, 3, 4}, items)
	hn := &HackerNews{BaseURL: srv.URL}

	articles, err := hn.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 relevant stories, got %d", len(articles))
	}

	first := articles[0]
	if first.Source != NameHackerNews || first.SourceID != "1" {
		t.Fatalf("unexpected first article identity: %+v", first)
	}
	if first.Score != 321 {
		t.Fatalf("native score = %d, want 321", first.Score)
	}
	if len(first.Comments) != 2 {
		t.Fatalf("expected 2 comments (deleted one skipped), got %d", len(first.Comments))
	}
	if first.Comments[0].Author != "alice" || first.Comments[1].Author != "anonymous" {
		t.Fatalf("comment authors = %q, %q", first.Comments[0].Author, first.Comments[1].Author)
	}
	if first.Comments[0].Score != 0 {
		t.Fatal("HN comment scores are not exposed and must stay 0")
	}

	second := articles[1]
	if second.URL != "https://news.ycombinator.com/item?id=4" {
		t.Fatalf("missing story URL should default to the item page, got %q", second.URL)
	}
}

func TestHackerNewsFetchStopsAtLimit(t *testing.T) {
	now := time.Now().Unix()

	items := make(map[int]map[string]any)
	ids := make([]int, 0, 10)
	for i := 1; i <= 10; i++ {
		ids = append(ids, i)
		items[i] = map[string]any{
			"id": i, "type": "story",
			"title": fmt.Sprintf("AI progress report volume %d", i),
			"url":   fmt.Sprintf("https://example.com/report-%d", i),
			"score": i, "time": now,
		}
	}

	srv := newHNServer(t, ids, items)
	hn := &HackerNews{BaseURL: srv.URL}

	articles, err := hn.Fetch(context.Background(), 3)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected fetch to stop at limit 3, got %d", len(articles))
	}
	// Ranking order is preserved.
	if articles[0].SourceID != "1" || articles[2].SourceID != "3" {
		t.Fatalf("articles out of ranking order: %v, %v", articles[0].SourceID, articles[2].SourceID)
	}
}

func TestHackerNewsFetchMalformedTopStories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an id list"`))
	}))
	t.Cleanup(srv.Close)

	hn := &HackerNews{BaseURL: srv.URL}
	if _, err := hn.Fetch(context.Background(), 5); err == nil {
		t.Fatal("expected an error on malformed top stories JSON")
	}
}

func TestHackerNewsFetchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	hn := &HackerNews{BaseURL: srv.URL}
	articles, err := hn.Fetch(context.Background(), 5)
	if err == nil {
		t.Fatal("expected an error when top stories fail")
	}
	if len(articles) != 0 {
		t.Fatalf("expected no articles, got %d", len(articles))
	}
}
