package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(rates map[string]Rate) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(rates)
	s.now = clock.now
	return s, clock
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want Rate
	}{
		{"10/minute", Rate{10, time.Minute}},
		{"5/s", Rate{5, time.Second}},
		{"2/hour", Rate{2, time.Hour}},
		{" 1 / day ", Rate{1, 24 * time.Hour}},
	}
	for _, tt := range tests {
		got, err := ParseRate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "10", "x/minute", "0/minute", "10/", "10/week"} {
		_, err := ParseRate(bad)
		assert.Error(t, err, bad)
	}
}

func TestStore_LimitsPerScopeAndCaller(t *testing.T) {
	s, _ := newTestStore(map[string]Rate{
		"review-create": {Requests: 2, Period: time.Minute},
	})

	ok, _ := s.Allow("review-create", "alice")
	assert.True(t, ok)
	ok, _ = s.Allow("review-create", "alice")
	assert.True(t, ok)

	ok, wait := s.Allow("review-create", "alice")
	assert.False(t, ok)
	assert.InDelta(t, float64(30*time.Second), float64(wait), float64(time.Millisecond))

	// other callers keep their own budget
	ok, _ = s.Allow("review-create", "bob")
	assert.True(t, ok)

	// unconfigured scopes are unlimited
	for i := 0; i < 10; i++ {
		ok, _ = s.Allow("review-list", "alice")
		assert.True(t, ok)
	}
}

func TestStore_Refills(t *testing.T) {
	s, clock := newTestStore(map[string]Rate{
		"review-detail": {Requests: 1, Period: time.Minute},
	})

	ok, _ := s.Allow("review-detail", "ip:10.0.0.1")
	require.True(t, ok)
	ok, _ = s.Allow("review-detail", "ip:10.0.0.1")
	require.False(t, ok)

	clock.advance(time.Minute + time.Second)
	ok, _ = s.Allow("review-detail", "ip:10.0.0.1")
	assert.True(t, ok)
}

func TestStore_RejectedRequestsDoNotConsume(t *testing.T) {
	s, clock := newTestStore(map[string]Rate{
		"review-create": {Requests: 1, Period: time.Minute},
	})

	s.Allow("review-create", "alice")
	for i := 0; i < 5; i++ {
		ok, _ := s.Allow("review-create", "alice")
		require.False(t, ok)
	}

	clock.advance(time.Minute + time.Second)
	ok, _ := s.Allow("review-create", "alice")
	assert.True(t, ok)
}

func TestStore_Cleanup(t *testing.T) {
	s, clock := newTestStore(map[string]Rate{
		"review-create": {Requests: 1, Period: time.Minute},
	})

	s.Allow("review-create", "alice")
	clock.advance(30 * time.Second)
	s.Allow("review-create", "bob")
	require.Equal(t, 2, s.Len())

	clock.advance(45 * time.Second)
	s.Cleanup()
	assert.Equal(t, 1, s.Len())
}
