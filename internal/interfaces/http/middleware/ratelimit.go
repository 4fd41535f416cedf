package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller: limit requests in a burst,
// refilled evenly over period.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	period  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	*rate.Limiter
	seen time.Time
}

// NewRateLimiter starts a goroutine dropping idle buckets; Stop ends it.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.sweep(period * 2)
	return rl
}

// sweep forgets callers idle for a whole period; their bucket would be full.
func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := rl.now().Add(-rl.period)
			for key, b := range rl.buckets {
				if b.seen.Before(cutoff) {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Allow takes a token for key and reports the tokens left.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(rate.Every(rl.period/time.Duration(rl.limit)), rl.limit)}
		rl.buckets[key] = b
	}
	b.seen = now
	allowed := b.AllowN(now, 1)
	return allowed, int(math.Max(0, math.Floor(b.TokensAt(now))))
}

// Limit is the burst size.
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// retryAfter is how long one token takes to come back, in whole seconds.
func (rl *RateLimiter) retryAfter() int {
	return int(math.Ceil((rl.period / time.Duration(rl.limit)).Seconds()))
}

// RateLimit limits authenticated callers per user and everyone else per IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, callerKey)
}

// AuthRateLimit limits sign-in and sign-up attempts per client IP
func AuthRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return "auth:" + c.ClientIP()
	})
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := limiter.Allow(keyFunc(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(limiter.retryAfter()))
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests. Please try again later")
			return
		}
		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if p := GetPrincipal(c); !p.IsZero() {
		return "user:" + p.UserID.String()
	}
	return "ip:" + c.ClientIP()
}
