// Package cache is a thin optional Redis wrapper used as an opaque
// get/set side-channel for aggregated responses. Without a Redis address,
// or when the server is unreachable at startup, the cache runs disabled
// and every operation is a no-op.
package cache

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at addr. An empty addr or a failed ping yields a
// disabled cache, not an error: the service works without caching.
func New(addr string, ttl time.Duration) *Cache {
	c := &Cache{ttl: ttl}
	if addr == "" {
		return c
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis ping failed, caching disabled: %v", err)
		_ = rdb.Close()
		return c
	}

	c.rdb = rdb
	return c
}

// Enabled reports whether a Redis backend is connected.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached bytes for key, with ok=false on miss, error or
// disabled cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	bs, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: get %s: %v", key, err)
		}
		return nil, false
	}
	return bs, true
}

// Set stores value under key with the configured TTL. Failures are logged
// and swallowed; caching is best-effort.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if !c.Enabled() {
		return
	}

	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

// Key builds a deterministic cache key from a prefix and parameters:
// params are sorted by name so the same inputs always produce the same key.
func Key(prefix string, params map[string]string) string {
	parts := []string{prefix}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, name+":"+params[name])
	}
	return strings.Join(parts, ":")
}
