package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory fixed-window limiter. Buckets are swept
// lazily once the map grows past sweepThreshold, so no background
// goroutine is needed.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	used     int
	windowAt time.Time
}

const sweepThreshold = 4096

// NewRateLimiter returns a limiter allowing limit requests per window
// for each key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
}

// Allow reports whether one more request for key fits in the current
// window, consuming a slot when it does.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowAt) >= rl.window {
		if len(rl.buckets) >= sweepThreshold {
			rl.sweepLocked(now)
		}
		rl.buckets[key] = &bucket{used: 1, windowAt: now}
		return true
	}

	if b.used < rl.limit {
		b.used++
		return true
	}
	return false
}

// Remaining returns how many requests key has left in its window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || time.Since(b.windowAt) >= rl.window {
		return rl.limit
	}
	return rl.limit - b.used
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.windowAt) >= rl.window {
			delete(rl.buckets, key)
		}
	}
}

// RateLimit limits requests per client IP, scoped per tenant when the
// X-Tenant-ID header is present so one tenant cannot starve another
// behind a shared proxy.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if tenantID := c.GetHeader("X-Tenant-ID"); tenantID != "" {
			key = tenantID + ":" + key
		}

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests. Please try again later.",
				},
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}
