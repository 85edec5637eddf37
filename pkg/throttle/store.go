// Package throttle keeps per-scope, per-caller request budgets shared by all
// requests of the process.
package throttle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate allows Requests per Period.
type Rate struct {
	Requests int
	Period   time.Duration
}

func (r Rate) String() string {
	return fmt.Sprintf("%d/%s", r.Requests, r.Period)
}

// ParseRate reads rates such as "10/minute", "5/s" or "1000/day". Only the
// first letter of the period is significant.
func ParseRate(s string) (Rate, error) {
	num, period, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q: want <requests>/<period>", s)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || requests < 1 {
		return Rate{}, fmt.Errorf("invalid rate %q: requests must be a positive integer", s)
	}

	period = strings.TrimSpace(period)
	if period == "" {
		return Rate{}, fmt.Errorf("invalid rate %q: missing period", s)
	}

	var d time.Duration
	switch period[0] {
	case 's':
		d = time.Second
	case 'm':
		d = time.Minute
	case 'h':
		d = time.Hour
	case 'd':
		d = 24 * time.Hour
	default:
		return Rate{}, fmt.Errorf("invalid rate %q: unknown period %q", s, period)
	}

	return Rate{Requests: requests, Period: d}, nil
}

type key struct {
	scope  string
	caller string
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Store holds one token bucket per (scope, caller). A bucket refills at
// Requests/Period and holds at most Requests tokens.
type Store struct {
	mu      sync.Mutex
	rates   map[string]Rate
	entries map[key]*entry
	now     func() time.Time
}

func NewStore(rates map[string]Rate) *Store {
	copied := make(map[string]Rate, len(rates))
	for scope, r := range rates {
		copied[scope] = r
	}

	return &Store{
		rates:   copied,
		entries: make(map[key]*entry),
		now:     time.Now,
	}
}

// Allow records one request for caller in scope. When the budget is spent it
// returns false and the time until the next request would be admitted.
// Scopes without a configured rate are never throttled.
func (s *Store) Allow(scope, caller string) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rates[scope]
	if !ok {
		return true, 0
	}

	now := s.now()
	k := key{scope: scope, caller: caller}
	e, exists := s.entries[k]
	if !exists {
		e = &entry{
			limiter: rate.NewLimiter(rate.Every(r.Period/time.Duration(r.Requests)), r.Requests),
		}
		s.entries[k] = e
	}
	e.lastAccess = now

	if e.limiter.AllowN(now, 1) {
		return true, 0
	}

	res := e.limiter.ReserveN(now, 1)
	wait := res.DelayFrom(now)
	res.CancelAt(now)

	return false, wait
}

// Rate returns the configured rate of scope.
func (s *Store) Rate(scope string) (Rate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rates[scope]
	return r, ok
}

// Len reports how many callers are currently tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Cleanup forgets callers idle for longer than their scope period; their
// bucket would be full again anyway.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.Sub(e.lastAccess) > s.rates[k.scope].Period {
			delete(s.entries, k)
		}
	}
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-ctx.Done():
			return
		}
	}
}
