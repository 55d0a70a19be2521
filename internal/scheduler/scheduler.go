// Package scheduler runs the periodic background jobs: prewarming the
// response cache and sweeping idle rate-limiter clients.
package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/newsfusion/ainews/internal/api"
	"github.com/newsfusion/ainews/internal/cache"
	"github.com/newsfusion/ainews/internal/ratelimit"
)

const (
	// startupDelay postpones the first prewarm so process startup is not
	// slowed by upstream fetches.
	startupDelay = 15 * time.Second

	refreshTimeout = 30 * time.Second
)

type Scheduler struct {
	cron     *cron.Cron
	provider api.NewsProvider
	cache    *cache.Cache
	limiter  *ratelimit.Limiter

	totalArticles int
	maxIdle       time.Duration
}

// New registers the prewarm and cleanup jobs under the given cron specs.
func New(refreshSpec, cleanupSpec string, provider api.NewsProvider, c *cache.Cache, l *ratelimit.Limiter, totalArticles int, maxIdle time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		provider:      provider,
		cache:         c,
		limiter:       l,
		totalArticles: totalArticles,
		maxIdle:       maxIdle,
	}

	if _, err := s.cron.AddFunc(refreshSpec, s.refresh); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cleanupSpec, s.sweep); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	time.AfterFunc(startupDelay, func() {
		go s.refresh()
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// refresh runs one aggregation pass and writes the response into the
// cache so the next readers hit warm data. A no-op when caching is off.
func (s *Scheduler) refresh() {
	if !s.cache.Enabled() {
		return
	}

	log.Println("scheduler: refreshing trending news cache...")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	articles := s.provider.GetTrendingNews(ctx)
	resp := api.NewNewsResponse(articles, time.Now())

	bs, err := json.Marshal(resp)
	if err != nil {
		log.Printf("scheduler: marshal response: %v", err)
		return
	}

	s.cache.Set(ctx, api.ResponseCacheKey(s.totalArticles), bs)
	log.Printf("scheduler: cached %d articles", len(articles))
}

// sweep drops rate-limiter state for clients idle past maxIdle.
func (s *Scheduler) sweep() {
	before := s.limiter.ClientCount()
	s.limiter.CleanupOldEntries(s.maxIdle)
	log.Printf("scheduler: rate limiter sweep: %d -> %d clients", before, s.limiter.ClientCount())
}
