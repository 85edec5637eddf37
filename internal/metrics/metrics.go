// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchmate_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "watchmate_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "watchmate_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Throttle Metrics
	ThrottleRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchmate_throttle_rejections_total",
			Help: "Total number of requests rejected by a throttle scope",
		},
		[]string{"scope"},
	)

	ThrottleTrackedCallers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "watchmate_throttle_tracked_callers",
			Help: "Number of (scope, caller) pairs held by the throttle store",
		},
	)

	// Review Metrics
	ReviewsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchmate_reviews_created_total",
			Help: "Total number of reviews created",
		},
	)

	RatingUpdateRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchmate_rating_update_retries_total",
			Help: "Total number of rating aggregate writes retried after a concurrent update",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordThrottleRejection(scope string) {
	ThrottleRejections.WithLabelValues(scope).Inc()
}

func SetThrottleTrackedCallers(count int) {
	ThrottleTrackedCallers.Set(float64(count))
}

func RecordReviewCreated() {
	ReviewsCreated.Inc()
}

func RecordRatingUpdateRetry() {
	RatingUpdateRetries.Inc()
}
