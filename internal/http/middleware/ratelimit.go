package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request draws from.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP buckets by the X-User-ID identity when present, else by
// client IP. Prefixes keep the two namespaces apart.
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get(ctxKeyUserID); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter is a process-local token bucket per key. Every chat turn costs
// a paid completion call, so this sits in front of the whole API. Buckets
// idle for longer than the TTL are swept at most once per sweep interval.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	key   KeyFunc

	ttl        time.Duration
	sweepEvery time.Duration
	now        func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewRateLimiter allows rps requests per second with the given burst per
// key. A burst below 1 is raised to 1.
func NewRateLimiter(rps float64, burst int, key KeyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:        rate.Limit(rps),
		burst:      burst,
		key:        key,
		ttl:        10 * time.Minute,
		sweepEvery: time.Minute,
		now:        time.Now,
		buckets:    make(map[string]*bucket),
	}
}

func (rl *RateLimiter) limiter(k string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Sweep before touching k so a stale bucket for k is replaced too.
	if now.Sub(rl.lastSweep) >= rl.sweepEvery {
		for id, b := range rl.buckets {
			if now.Sub(b.seen) >= rl.ttl {
				delete(rl.buckets, id)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[k]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[k] = b
	}
	b.seen = now
	return b.lim
}

// size reports the number of live buckets.
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Handler rejects over-limit requests with 429 and a Retry-After hint.
// Idempotent replays pass without spending a token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ctxKeyRateBypass) {
			c.Next()
			return
		}

		lim := rl.limiter(rl.key(c))
		if lim.AllowN(rl.now(), 1) {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(retryAfter(rl.rps)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success":    false,
			"request_id": RequestIDFrom(c),
			"code":       "rate_limited",
			"error":      "rate limit exceeded",
		})
	}
}

// retryAfter is the whole seconds until one token refills, at least 1.
func retryAfter(rps rate.Limit) int {
	if rps <= 0 {
		return 60
	}
	return int(math.Max(1, math.Ceil(1/float64(rps))))
}
