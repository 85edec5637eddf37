package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAPIRequest(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/watchlist/list", "200")
	before := testutil.ToFloat64(counter)

	RecordAPIRequest("GET", "/watchlist/list", 200, 15*time.Millisecond)
	RecordAPIRequest("GET", "/watchlist/list", 200, 30*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))

	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}

func TestRecordThrottleRejection(t *testing.T) {
	counter := ThrottleRejections.WithLabelValues("review-create")
	before := testutil.ToFloat64(counter)

	RecordThrottleRejection("review-create")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestReviewCounters(t *testing.T) {
	created := testutil.ToFloat64(ReviewsCreated)
	retries := testutil.ToFloat64(RatingUpdateRetries)

	RecordReviewCreated()
	RecordRatingUpdateRetry()
	SetThrottleTrackedCallers(3)

	assert.Equal(t, created+1, testutil.ToFloat64(ReviewsCreated))
	assert.Equal(t, retries+1, testutil.ToFloat64(RatingUpdateRetries))
	assert.Equal(t, float64(3), testutil.ToFloat64(ThrottleTrackedCallers))
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"watchmate_api_requests_total",
		"watchmate_reviews_created_total",
		"watchmate_throttle_rejections_total",
	)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
