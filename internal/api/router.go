package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/newsfusion/ainews/internal/cache"
	"github.com/newsfusion/ainews/internal/config"
	"github.com/newsfusion/ainews/internal/metrics"
	"github.com/newsfusion/ainews/internal/ratelimit"
	"github.com/newsfusion/ainews/internal/source"
)

const version = "1.0.0"

// NewsProvider produces the ranked article list. Satisfied by
// aggregator.Aggregator.
type NewsProvider interface {
	GetTrendingNews(ctx context.Context) []source.Article
}

type Server struct {
	provider NewsProvider
	cache    *cache.Cache
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
	cfg      *config.Config
}

func NewServer(provider NewsProvider, c *cache.Cache, l *ratelimit.Limiter, m *metrics.Metrics, cfg *config.Config) *Server {
	return &Server{
		provider: provider,
		cache:    c,
		limiter:  l,
		metrics:  m,
		cfg:      cfg,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	r.GET("/", s.root)
	r.GET("/health", s.health)
	r.GET("/sources", s.sources)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.GET("/ai-news", ratelimit.Middleware(s.limiter, s.metrics), s.aiNews)
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "AI News Aggregator API is running",
		"version": version,
		"docs":    "/sources",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": gin.H{
			"rate_limiting": true,
			"cache":         s.cache.Enabled(),
		},
		"configuration": gin.H{
			"max_articles": s.cfg.TotalArticles,
			"rate_limit": fmt.Sprintf("%d requests per %d seconds",
				s.cfg.RateLimitRequests, int(s.cfg.RateLimitPeriod.Seconds())),
		},
	})
}

// aiNews serves the ranked article list: cache first, then a fresh
// aggregation bounded by the outer request timeout.
func (s *Server) aiNews(c *gin.Context) {
	ctx := c.Request.Context()
	key := ResponseCacheKey(s.cfg.TotalArticles)

	if bs, ok := s.cache.Get(ctx, key); ok {
		var cached NewsResponse
		if err := json.Unmarshal(bs, &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
		log.Printf("api: discarding malformed cache entry %s", key)
	}

	// The outer deadline bounds the whole aggregation pass; cancellation
	// into in-flight source calls is best-effort.
	fctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	done := make(chan []source.Article, 1)
	go func() {
		done <- s.provider.GetTrendingNews(fctx)
	}()

	var articles []source.Article
	select {
	case articles = <-done:
	case <-fctx.Done():
		log.Printf("api: aggregation exceeded %s deadline", s.cfg.RequestTimeout)
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":   "Gateway timeout",
			"message": "Aggregation did not complete in time. Please try again later.",
		})
		return
	}

	if len(articles) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Service temporarily unavailable",
			"message": "Unable to fetch articles from any source. Please try again later.",
		})
		return
	}

	resp := NewNewsResponse(articles, time.Now())

	if bs, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, bs)
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) sources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": []gin.H{
			{
				"name":        source.NameReddit,
				"description": "AI-focused subreddits with community discussions",
				"subreddits":  s.cfg.AISubreddits,
				"provides":    []string{"comments", "upvotes", "community_insights"},
			},
			{
				"name":        source.NameHackerNews,
				"description": "Technical discussions and startup insights",
				"website":     "https://news.ycombinator.com",
				"provides":    []string{"comments", "technical_discussions", "startup_news"},
			},
			{
				"name":         source.NameNewsAPI,
				"description":  "Mainstream tech publications and news outlets",
				"search_terms": s.cfg.NewsAPISearchTerms,
				"provides":     []string{"professional_journalism", "industry_coverage"},
			},
		},
		"total_target_articles": s.cfg.TotalArticles,
		"distribution": gin.H{
			source.NameReddit:     s.cfg.RedditArticles,
			source.NameHackerNews: s.cfg.HackerNewsArticles,
			source.NameNewsAPI:    s.cfg.NewsAPIArticles,
		},
	})
}

// corsMiddleware allows cross-origin reads; the API is public and
// read-only.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
