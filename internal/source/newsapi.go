package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	newsAPIDefaultBaseURL   = "https://newsapi.org/v2"
	newsAPIPageSize         = 20
	newsAPIClientTimeout    = 10 * time.Second
	newsAPIMaxResponseBytes = 1 << 20

	newsAPIBaseScore     = 50
	newsAPIOutletBonus   = 30
	newsAPIRecencyWindow = 24 // hours
)

// reputableOutlets gets a popularity bonus: NewsAPI exposes no engagement
// metric, so the synthetic score leans on source reputation and recency.
var reputableOutlets = []string{
	"techcrunch", "ars technica", "the verge", "wired", "venturebeat",
	"ieee spectrum", "mit technology review", "ai news", "artificial intelligence news",
}

// NewsAPI searches newsapi.org for the configured terms, one request per
// term, until enough articles are collected. Outbound calls are throttled
// to stay inside the upstream quota.
type NewsAPI struct {
	APIKey      string
	SearchTerms []string

	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string

	once     sync.Once
	client   *http.Client
	throttle *rate.Limiter
	now      func() time.Time
}

func (n *NewsAPI) Name() string {
	return NameNewsAPI
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (n *NewsAPI) init() {
	n.once.Do(func() {
		n.client = &http.Client{Timeout: newsAPIClientTimeout}
		n.throttle = rate.NewLimiter(rate.Limit(1), 1)
		if n.now == nil {
			n.now = time.Now
		}
	})
}

func (n *NewsAPI) Fetch(ctx context.Context, limit int) ([]Article, error) {
	n.init()

	articles := make([]Article, 0, limit)
	seenURLs := make(map[string]struct{})

	for _, term := range n.SearchTerms {
		if len(articles) >= limit {
			break
		}

		found, err := n.search(ctx, term, limit)
		if err != nil {
			log.Printf("newsapi: search %q: %v", term, err)
			if isRateLimited(err) {
				// Upstream quota hit, further terms would fail the same way.
				return articles, err
			}
			continue
		}

		for _, a := range found {
			if len(articles) >= limit {
				break
			}
			if _, ok := seenURLs[a.URL]; ok {
				continue
			}
			seenURLs[a.URL] = struct{}{}
			articles = append(articles, a)
		}
	}

	return articles, nil
}

var errUpstreamRateLimited = fmt.Errorf("newsapi: upstream rate limited")

func isRateLimited(err error) bool {
	return err == errUpstreamRateLimited
}

func (n *NewsAPI) search(ctx context.Context, term string, limit int) ([]Article, error) {
	if err := n.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	pageSize := limit
	if pageSize > newsAPIPageSize {
		pageSize = newsAPIPageSize
	}

	params := url.Values{
		"q":        {term},
		"sortBy":   {"popularity"},
		"language": {"en"},
		"pageSize": {fmt.Sprintf("%d", pageSize)},
		"apiKey":   {n.APIKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL()+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errUpstreamRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, newsAPIMaxResponseBytes))
	if err != nil {
		return nil, err
	}

	var data newsAPIResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	articles := make([]Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		if a.Title == "" || a.Title == "[Removed]" {
			continue
		}

		description := a.Description
		if description == "" {
			description = a.Title
		}

		published := n.parseTime(a.PublishedAt)

		articles = append(articles, Article{
			Title:       a.Title,
			Description: truncateRunes(description, maxDescriptionRunes),
			URL:         a.URL,
			Source:      NameNewsAPI,
			Score:       n.popularityScore(a.Source.Name, published),
			Comments:    nil, // NewsAPI has no comments
			PublishedAt: published,
			SourceID:    a.URL,
		})
	}
	return articles, nil
}

// popularityScore synthesizes an engagement stand-in: base 50, +30 for a
// reputable tech outlet, plus up to 24 points scaled by recency for
// articles under 24 hours old.
func (n *NewsAPI) popularityScore(sourceName string, published time.Time) int {
	score := newsAPIBaseScore

	name := strings.ToLower(sourceName)
	for _, outlet := range reputableOutlets {
		if strings.Contains(name, outlet) {
			score += newsAPIOutletBonus
			break
		}
	}

	if !published.IsZero() {
		hoursAgo := n.now().Sub(published).Hours()
		if hoursAgo < newsAPIRecencyWindow {
			score += int(newsAPIRecencyWindow - hoursAgo)
		}
	}

	return score
}

// parseTime parses the RFC 3339 publishedAt field, defaulting to now when
// the value is missing or malformed.
func (n *NewsAPI) parseTime(value string) time.Time {
	if value != "" {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
		log.Printf("newsapi: parse publishedAt %q failed", value)
	}
	return n.now()
}

func (n *NewsAPI) baseURL() string {
	if n.BaseURL != "" {
		return n.BaseURL
	}
	return newsAPIDefaultBaseURL
}
