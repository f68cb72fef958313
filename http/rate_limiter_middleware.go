package http

import (
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
)

// RateLimitMiddleware keys clients by remote host. Put it after
// middleware.RealIP so proxied requests are keyed by the real address.
func RateLimitMiddleware(limiter *RateLimiter, logger *logrus.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.Allow(ip) {
				respondError(w, logger, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
