package middleware

import (
	"net/http"
	"time"

	"watchmate/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request count and latency per route pattern.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			metrics.TrackActiveRequest(true)
			defer metrics.TrackActiveRequest(false)

			rw := wrapResponseWriter(w)
			next.ServeHTTP(rw, r)

			// patterns keep label cardinality bounded
			endpoint := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}

			metrics.RecordAPIRequest(r.Method, endpoint, rw.statusCode, time.Since(start))
		})
	}
}
