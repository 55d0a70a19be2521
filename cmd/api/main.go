package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/newsfusion/ainews/internal/aggregator"
	"github.com/newsfusion/ainews/internal/api"
	"github.com/newsfusion/ainews/internal/cache"
	"github.com/newsfusion/ainews/internal/config"
	"github.com/newsfusion/ainews/internal/metrics"
	"github.com/newsfusion/ainews/internal/ratelimit"
	"github.com/newsfusion/ainews/internal/scheduler"
	"github.com/newsfusion/ainews/internal/source"
)

func main() {
	cfg := config.Load()

	m := metrics.New()

	var responseCache *cache.Cache
	if cfg.EnableCache {
		responseCache = cache.New(cfg.RedisAddr, cfg.CacheTTL)
	} else {
		responseCache = cache.New("", 0)
	}

	agg := aggregator.New(buildTargets(cfg), cfg.TotalArticles, m)
	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitPeriod)

	sched, err := scheduler.New(cfg.RefreshCron, cfg.CleanupCron, agg, responseCache, limiter, cfg.TotalArticles, cfg.RateLimiterMaxIdle)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	sched.Start()

	r := gin.Default()
	server := api.NewServer(agg, responseCache, limiter, m, cfg)
	server.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// buildTargets wires the configured sources. Reddit and Hacker News work
// without credentials; NewsAPI is skipped when no key is set.
func buildTargets(cfg *config.Config) []aggregator.Target {
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
	} else {
		log.Println("NEWSAPI_KEY not set, newsapi source disabled")
	}

	return targets
}
