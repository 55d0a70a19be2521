package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	hnDefaultBaseURL   = "https://hacker-news.firebaseio.com/v0"
	hnMaxProbe         = 100
	hnProbeChunk       = 20
	hnConcurrency      = 10
	hnMaxResponseBytes = 1 << 20 // 1MB
	hnClientTimeout    = 10 * time.Second
	hnItemTimeout      = 5 * time.Second
)

// HackerNews fetches AI-related stories via the official Firebase API.
// It walks the top-stories ranking, probing ids in order until enough
// relevant stories are collected.
type HackerNews struct {
	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string

	once       sync.Once
	client     *http.Client
	itemClient *http.Client
}

func (h *HackerNews) Name() string {
	return NameHackerNews
}

type hnItem struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	URL     string `json:"url"`
	Score   int    `json:"score"`
	By      string `json:"by"`
	Time    int64  `json:"time"`
	Type    string `json:"type"`
	Kids    []int  `json:"kids"`
	Deleted bool   `json:"deleted"`
}

func (h *HackerNews) baseURL() string {
	if h.BaseURL != "" {
		return h.BaseURL
	}
	return hnDefaultBaseURL
}

// init builds the HTTP clients on first use.
func (h *HackerNews) init() {
	h.once.Do(func() {
		h.client = &http.Client{Timeout: hnClientTimeout}
		h.itemClient = &http.Client{Timeout: hnItemTimeout}
	})
}

func (h *HackerNews) Fetch(ctx context.Context, limit int) ([]Article, error) {
	h.init()

	ids, err := h.topStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("hackernews: fetch top stories: %w", err)
	}
	if len(ids) > hnMaxProbe {
		ids = ids[:hnMaxProbe]
	}

	articles := make([]Article, 0, limit)

	// Probe ids in ranking order, one chunk at a time, so we can stop as
	// soon as enough relevant stories are found without fetching all 100.
	for start := 0; start < len(ids) && len(articles) < limit; start += hnProbeChunk {
		end := start + hnProbeChunk
		if end > len(ids) {
			end = len(ids)
		}

		items := h.fetchItems(ctx, ids[start:end])
		for _, it := range items {
			if len(articles) >= limit {
				break
			}
			if it.Type != "story" || it.Title == "" {
				continue
			}
			if !isAIRelated(it.Title, it.Text, hnExtraKeywords...) {
				continue
			}
			articles = append(articles, h.toArticle(ctx, it))
		}
	}

	return articles, nil
}

func (h *HackerNews) topStories(ctx context.Context) ([]int, error) {
	body, err := h.getJSON(ctx, h.client, h.baseURL()+"/topstories.json")
	if err != nil {
		return nil, err
	}

	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return ids, nil
}

// fetchItems retrieves item details concurrently and returns them in the
// original id order so ranking position is preserved.
func (h *HackerNews) fetchItems(ctx context.Context, ids []int) []hnItem {
	var (
		wg    sync.WaitGroup
		sem   = make(chan struct{}, hnConcurrency)
		items = make([]*hnItem, len(ids))
	)

	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx, id int) {
			defer wg.Done()
			defer func() { <-sem }()

			it, err := h.fetchItem(ctx, id)
			if err != nil {
				log.Printf("hackernews: fetch item %d: %v", id, err)
				return
			}
			items[idx] = &it
		}(i, id)
	}
	wg.Wait()

	out := make([]hnItem, 0, len(ids))
	for _, it := range items {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out
}

func (h *HackerNews) toArticle(ctx context.Context, it hnItem) Article {
	itemURL := it.URL
	if itemURL == "" {
		itemURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
	}

	description := it.Text
	if description == "" {
		description = it.Title
	}

	var published time.Time
	if it.Time > 0 {
		published = time.Unix(it.Time, 0)
	}

	return Article{
		Title:       it.Title,
		Description: truncateRunes(description, maxDescriptionRunes),
		URL:         itemURL,
		Source:      NameHackerNews,
		Score:       it.Score,
		Comments:    h.fetchComments(ctx, it),
		PublishedAt: published,
		SourceID:    fmt.Sprintf("%d", it.ID),
	}
}

// fetchComments pulls the first few top-level comments concurrently.
// The HN API does not expose comment scores, so Score stays 0.
func (h *HackerNews) fetchComments(ctx context.Context, it hnItem) []Comment {
	kids := it.Kids
	if len(kids) > maxCommentsPerItem {
		kids = kids[:maxCommentsPerItem]
	}
	if len(kids) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make([]*Comment, len(kids))

	for i, id := range kids {
		wg.Add(1)
		go func(idx, id int) {
			defer wg.Done()

			c, err := h.fetchItem(ctx, id)
			if err != nil {
				log.Printf("hackernews: fetch comment %d: %v", id, err)
				return
			}
			if c.Type != "comment" || c.Deleted {
				return
			}
			author := c.By
			if author == "" {
				author = "anonymous"
			}
			results[idx] = &Comment{
				Author:     author,
				Content:    truncateRunes(c.Text, maxCommentRunes),
				Score:      0,
				CreatedUTC: time.Unix(c.Time, 0),
			}
		}(i, id)
	}
	wg.Wait()

	comments := make([]Comment, 0, len(kids))
	for _, c := range results {
		if c != nil {
			comments = append(comments, *c)
		}
	}
	return comments
}

func (h *HackerNews) fetchItem(ctx context.Context, id int) (hnItem, error) {
	body, err := h.getJSON(ctx, h.itemClient, fmt.Sprintf("%s/item/%d.json", h.baseURL(), id))
	if err != nil {
		return hnItem{}, err
	}

	var it hnItem
	if err := json.Unmarshal(body, &it); err != nil {
		return hnItem{}, fmt.Errorf("unmarshal: %w", err)
	}
	return it, nil
}

func (h *HackerNews) getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, hnMaxResponseBytes))
}
