package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	RedisAddr   string
	EnableCache bool
	CacheTTL    time.Duration

	RateLimitRequests int
	RateLimitPeriod   time.Duration

	TotalArticles  int
	RequestTimeout time.Duration

	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	NewsAPIKey         string

	// AISubreddits is free-form: entries may repeat and are requested as
	// given.
	AISubreddits       []string
	NewsAPISearchTerms []string

	RedditArticles     int
	HackerNewsArticles int
	NewsAPIArticles    int

	RefreshCron        string
	CleanupCron        string
	RateLimiterMaxIdle time.Duration
}

func Load() *Config {
	// Best-effort .env support for local development.
	_ = godotenv.Load()

	cfg := &Config{
		AppPort: getEnv("APP_PORT", "8000"),

		RedisAddr:   getEnv("REDIS_ADDR", ""),
		EnableCache: getEnvBool("ENABLE_CACHE", true),
		CacheTTL:    getEnvSeconds("CACHE_TTL", 300),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitPeriod:   getEnvSeconds("RATE_LIMIT_PERIOD", 3600),

		TotalArticles:  getEnvInt("TOTAL_ARTICLES", 20),
		RequestTimeout: getEnvSeconds("REQUEST_TIMEOUT", 20),

		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUserAgent:    getEnv("REDDIT_USER_AGENT", "AI News Aggregator v1.0"),
		NewsAPIKey:         getEnv("NEWSAPI_KEY", ""),

		AISubreddits: getEnvList("AI_SUBREDDITS", []string{
			"artificial",
			"MachineLearning",
			"deeplearning",
			"singularity",
			"OpenAI",
			"ChatGPT",
			"singularity",
		}),
		NewsAPISearchTerms: getEnvList("NEWSAPI_SEARCH_TERMS", []string{
			"artificial intelligence",
			"machine learning",
			"AI",
			"neural networks",
			"deep learning",
			"OpenAI",
			"ChatGPT",
		}),

		RedditArticles:     getEnvInt("REDDIT_ARTICLES", 7),
		HackerNewsArticles: getEnvInt("HACKERNEWS_ARTICLES", 7),
		NewsAPIArticles:    getEnvInt("NEWSAPI_ARTICLES", 6),

		RefreshCron:        getEnv("REFRESH_CRON", "*/10 * * * *"),
		CleanupCron:        getEnv("CLEANUP_CRON", "0 * * * *"),
		RateLimiterMaxIdle: getEnvSeconds("RATE_LIMITER_MAX_IDLE", 3600),
	}

	log.Printf("config loaded: port=%s total=%d rate=%d/%s cache_ttl=%s",
		cfg.AppPort, cfg.TotalArticles, cfg.RateLimitRequests, cfg.RateLimitPeriod, cfg.CacheTTL)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("config: invalid int for %s: %q, using %d", key, v, def)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("config: invalid bool for %s: %q, using %t", key, v, def)
	}
	return def
}

// getEnvSeconds reads an integer number of seconds.
func getEnvSeconds(key string, def int) time.Duration {
	return time.Duration(getEnvInt(key, def)) * time.Second
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
