package api

import (
	"strconv"
	"time"

	"github.com/newsfusion/ainews/internal/aggregator"
	"github.com/newsfusion/ainews/internal/cache"
	"github.com/newsfusion/ainews/internal/source"
)

// NewsResponse is the /ai-news output envelope.
type NewsResponse struct {
	Articles    []source.Article `json:"articles"`
	TotalCount  int              `json:"total_count"`
	SourcesUsed []string         `json:"sources_used"`
	LastUpdated time.Time        `json:"last_updated"`
}

// NewNewsResponse wraps a ranked article list into the response envelope.
func NewNewsResponse(articles []source.Article, now time.Time) NewsResponse {
	return NewsResponse{
		Articles:    articles,
		TotalCount:  len(articles),
		SourcesUsed: aggregator.SourcesUsed(articles),
		LastUpdated: now,
	}
}

// ResponseCacheKey is the deterministic cache key for the trending
// response. Shared with the scheduler's prewarm job.
func ResponseCacheKey(totalArticles int) string {
	return cache.Key("ai-news", map[string]string{
		"total": strconv.Itoa(totalArticles),
	})
}
