package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a per-key token bucket. Idle keys are dropped by Sweep.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
}

type entry struct {
	limiter *rate.Limiter
	last    time.Time
}

// NewLimiter allows perMinute events per key with the given burst.
func NewLimiter(perMinute, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*entry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.last = time.Now()
	return e.limiter.Allow()
}

// Sweep removes keys not seen for idle and returns how many were removed.
func (l *Limiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	n := 0
	for key, e := range l.limiters {
		if e.last.Before(cutoff) {
			delete(l.limiters, key)
			n++
		}
	}
	return n
}
