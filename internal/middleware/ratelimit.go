package middleware

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/httpx"
)

var errRateLimited = apperr.New(apperr.CodeRateLimited, "rate limit exceeded, retry later")

// NewLimiter returns a token bucket refilling at rps with the given burst, or
// nil when rps is not positive.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// RateLimitMiddleware answers 429 with a Retry-After header once l has no
// tokens left. The limiter is shared by all clients. A nil l is a no-op.
func RateLimitMiddleware(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		retryAfter := strconv.Itoa(retryAfterSeconds(l.Limit()))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				httpx.WriteError(w, r, errRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds is the time to earn one token, rounded up to a whole
// second.
func retryAfterSeconds(limit rate.Limit) int {
	if limit <= 0 || limit == rate.Inf {
		return 1
	}
	return max(1, int(math.Ceil(1/float64(limit))))
}
