package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/newsfusion/ainews/internal/metrics"
)

// ClientID derives the client identity for rate limiting. Priority:
// first X-Forwarded-For entry, then X-Real-IP, then the transport peer
// address, then the "unknown" sentinel.
func ClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}

	return "unknown"
}

// Middleware gates a route on the limiter. Rejected requests get a 429
// with the advisory X-RateLimit-* headers and a Retry-After hint.
func Middleware(l *Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := ClientID(c.Request)

		if l.Allow(clientID) {
			c.Next()
			return
		}

		m.RecordRateLimited()

		remaining := l.Remaining(clientID)
		retryAfter := 0
		resetUnix := int64(0)
		if reset, ok := l.ResetTime(clientID); ok {
			resetUnix = reset.Unix()
			if secs := int(time.Until(reset).Seconds()); secs > 0 {
				retryAfter = secs
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetUnix, 10))
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit exceeded",
			"message": fmt.Sprintf("Too many requests. Limit: %d per %d seconds",
				l.Limit(), int(l.Period().Seconds())),
			"retry_after": retryAfter,
		})
	}
}
