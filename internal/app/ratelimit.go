package app

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter restricts request frequency per client.
type rateLimiter struct {
	mu   sync.Mutex
	last map[string]time.Time
	rate time.Duration
	now  func() time.Time
}

const rateLimiterSweepSize = 1024

func newRateLimiter(rate time.Duration) *rateLimiter {
	return &rateLimiter{last: make(map[string]time.Time), rate: rate, now: time.Now}
}

// Allow returns false if the client hits the limit.
func (r *rateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if t, ok := r.last[client]; ok && now.Sub(t) < r.rate {
		return false
	}
	if len(r.last) >= rateLimiterSweepSize {
		for k, t := range r.last {
			if now.Sub(t) >= r.rate {
				delete(r.last, k)
			}
		}
	}
	r.last[client] = now
	return true
}

// Middleware answers 429 to clients over the limit.
func (r *rateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error:     "RateLimited",
				Message:   "too many requests",
				RequestID: c.GetString(requestIDKey),
			})
			return
		}
		c.Next()
	}
}
