package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/newsfusion/ainews/internal/aggregator"
	"github.com/newsfusion/ainews/internal/api"
	"github.com/newsfusion/ainews/internal/config"
	"github.com/newsfusion/ainews/internal/source"
)

// A one-shot entry point: run a single aggregation pass and print the
// response JSON. Useful for checking source wiring without the server.
func main() {
	cfg := config.Load()

	targets := []aggregator.Target{
		{
			Source: &source.Reddit{
				ClientID:     cfg.RedditClientID,
				ClientSecret: cfg.RedditClientSecret,
				UserAgent:    cfg.RedditUserAgent,
				Subreddits:   cfg.AISubreddits,
			},
			Limit: cfg.RedditArticles,
		},
		{
			Source: &source.HackerNews{},
			Limit:  cfg.HackerNewsArticles,
		},
	}
	if cfg.NewsAPIKey != "" {
		targets = append(targets, aggregator.Target{
			Source: &source.NewsAPI{
				APIKey:      cfg.NewsAPIKey,
				SearchTerms: cfg.NewsAPISearchTerms,
			},
			Limit: cfg.NewsAPIArticles,
		})
	}

	agg := aggregator.New(targets, cfg.TotalArticles, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	articles := agg.GetTrendingNews(ctx)
	resp := api.NewNewsResponse(articles, time.Now())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Fatalf("encode response: %v", err)
	}
}
