package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/codr1/Courtly/internal/clock"
)

const visitorIdleTTL = time.Hour

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RequestLimiter is a token bucket per client key. A bucket holds `requests`
// tokens and refills evenly over `window`.
type RequestLimiter struct {
	limit rate.Limit
	burst int
	clock clock.Clock

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewRequestLimiter returns nil when requests is not positive, which
// disables limiting.
func NewRequestLimiter(requests int, window time.Duration, clk clock.Clock) *RequestLimiter {
	if requests <= 0 || window <= 0 {
		return nil
	}
	return &RequestLimiter{
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		clock:    clock.OrReal(clk),
		visitors: make(map[string]*visitor),
	}
}

// Allow consumes one token for key.
func (l *RequestLimiter) Allow(key string) LimitResult {
	if l == nil {
		return LimitResult{Allowed: true}
	}
	now := l.clock.Now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.evictIdle(now)
	l.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return LimitResult{Allowed: false, RetryAfter: delay, Reason: "request_rate"}
	}
	return LimitResult{Allowed: true}
}

// evictIdle drops visitors not seen for an hour, at most once a minute.
// Callers hold l.mu.
func (l *RequestLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(l.visitors, k)
		}
	}
}
