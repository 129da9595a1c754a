package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"loan-advisor/observability"
)

// RateLimit rejects requests of clients over their budget with 429. Clients
// are keyed by remote IP. metrics may be nil.
func RateLimit(limiter *RateLimiter, metrics observability.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.Allow(ip) {
				if metrics != nil {
					metrics.RecordRateLimited(r.Context(), routePattern(r))
				}
				seconds := int(math.Ceil(limiter.RetryAfter().Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(1, seconds)))
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
