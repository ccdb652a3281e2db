// Package middleware holds the HTTP middleware shared by the API
// surface.
package middleware

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// SessionRateLimiter throttles requests per session token so a single
// chatty client cannot drain the LLM quota for everyone.
type SessionRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewSessionRateLimiter creates a limiter allowing rps requests per
// second with the given burst per key.
func NewSessionRateLimiter(rps float64, burst int) *SessionRateLimiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &SessionRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request under the given key may proceed.
func (rl *SessionRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

// Middleware rejects over-limit requests with 429. keyFn extracts the
// limiting key from the request; an empty key skips limiting.
func (rl *SessionRateLimiter) Middleware(keyFn func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := keyFn(c)
			if key != "" && !rl.Allow(key) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
