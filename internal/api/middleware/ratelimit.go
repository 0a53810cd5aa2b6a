package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yukmats/visit-hearing/internal/api/response"
	"github.com/yukmats/visit-hearing/internal/repository/redis"
)

// RateLimitMiddleware applies a per-client-IP request limit
type RateLimitMiddleware struct {
	rateLimiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware.
// rateLimiter may be nil, in which case limiting is disabled.
func NewRateLimitMiddleware(rateLimiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting keyed by the client address
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), r.RemoteAddr)
		if err != nil {
			// If the limiter fails, allow the request
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
