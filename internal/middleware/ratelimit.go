package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// trackedIPLimit bounds the bucket table so an address scan cannot grow it
// without limit.
const trackedIPLimit = 100_000

type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter applies a per-IP token bucket. Buckets refill at rate tokens
// per second up to burst and are evicted after sitting idle.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	rate    float64
	burst   float64
}

// NewRateLimiter builds a limiter and starts its eviction loop, which exits
// when ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
	}
	go rl.evictLoop(ctx)

	return rl
}

func (rl *RateLimiter) evictLoop(ctx context.Context) {
	const (
		sweepEvery = 5 * time.Minute
		idleAfter  = 10 * time.Minute
	)

	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if now.Sub(b.lastSeen) > idleAfter {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// take refills the bucket for ip and spends one token. The second return is
// false when the bucket table is full and ip is not yet tracked.
func (rl *RateLimiter) take(ip string, now time.Time) (allowed, tracked bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		if len(rl.buckets) >= trackedIPLimit {
			return false, false
		}

		b = &tokenBucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[ip] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, true
	}
	b.tokens--

	return true, true
}

// Handler returns gin middleware enforcing the limit per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// ClientIP cannot be spoofed via X-Forwarded-For here: the router
		// calls SetTrustedProxies(nil).
		allowed, tracked := rl.take(c.ClientIP(), time.Now())
		switch {
		case !tracked:
			respondError(c, http.StatusTooManyRequests, "too many clients")
		case !allowed:
			respondError(c, http.StatusTooManyRequests, "rate limit exceeded")
		default:
			c.Next()
		}
	}
}
