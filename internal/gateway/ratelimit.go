package gateway

import (
	"sync"

	"golang.org/x/time/rate"
)

// limiterSet is a token-bucket limiter keyed by client address, per
// SPEC_FULL.md §D.4 (ported from the Python gateway draft's slowapi
// GATEWAY_RATE_LIMIT). Entries are never evicted: they live for the
// process lifetime, which is acceptable at gateway scale without a
// separate cleanup goroutine.
type limiterSet struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perMinute float64
	burst     int
}

func newLimiterSet(perMinute float64) *limiterSet {
	if perMinute <= 0 {
		perMinute = 120
	}
	burst := int(perMinute)
	if burst < 1 {
		burst = 1
	}
	return &limiterSet{
		limiters:  map[string]*rate.Limiter{},
		perMinute: perMinute,
		burst:     burst,
	}
}

// allow reports whether a request from key may proceed.
func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	limiter, ok := s.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.perMinute/60.0), s.burst)
		s.limiters[key] = limiter
	}
	s.mu.Unlock()
	return limiter.Allow()
}
