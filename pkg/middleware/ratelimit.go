package middleware

import (
	"net"
	"net/http"
	"time"

	"watchmate/internal/metrics"
	"watchmate/internal/permission"
	"watchmate/pkg/throttle"
	"watchmate/pkg/utils"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// Throttle applies the store's rate for scope to each caller.
func Throttle(store *throttle.Store, scope string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := CallerKey(r)

			allowed, wait := store.Allow(scope, caller)
			metrics.SetThrottleTrackedCallers(store.Len())
			if !allowed {
				metrics.RecordThrottleRejection(scope)
				logger.Warn("Request throttled",
					zap.String("scope", scope),
					zap.String("caller", caller),
					zap.Duration("retry_after", wait))
				utils.ResponseTooManyRequests(w, "Request was throttled", wait)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CallerKey identifies the throttled party: the user when authenticated,
// the client address otherwise.
func CallerKey(r *http.Request) string {
	if caller := permission.CallerFromContext(r.Context()); caller.Authenticated() {
		return "user:" + caller.UserID.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// GlobalRateLimit caps requests per client IP per minute. Zero disables it.
func GlobalRateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordThrottleRejection("global")
			utils.ResponseTooManyRequests(w, "Request was throttled", retryAfter(w))
		}),
	)
}

// retryAfter reads the reset hint httprate sets before calling the limit handler.
func retryAfter(w http.ResponseWriter) time.Duration {
	if secs := utils.ParseInt(w.Header().Get("Retry-After"), 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return time.Minute
}
