package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/nexuslabs/nexus-shortener/internal/ratelimit"
	"github.com/nexuslabs/nexus-shortener/pkg/httputils"
)

// RateLimitMiddleware runs admission control keyed by client IP before the
// handler. Denials get a 429 with a Retry-After hint. Limiter errors fail
// open; the fallback limiter absorbs shared-store outages itself, so an
// error here is already exceptional.
func RateLimitMiddleware(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Allow(r.Context(), ClientIP(r))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if !decision.Allowed {
				httputils.WriteRateLimited(w, r, decision.RetryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client address, preferring the first entry of
// X-Forwarded-For when a proxy set it.
func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0]); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
