package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a keyed token bucket. It guards the manual refresh and reload
// endpoints so a stuck button cannot hammer the backend.
type Limiter struct {
	mu       sync.Mutex
	m        map[string]*bucket
	capacity float64
	refill   float64
	now      func() time.Time
}

// New creates a limiter allowing burst requests per key, refilled at
// perSecond tokens per second.
func New(burst int, perSecond float64) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		m:        make(map[string]*bucket),
		capacity: float64(burst),
		refill:   perSecond,
		now:      time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, capacity: l.capacity, refillRate: l.refill, last: now}
		l.m[key] = b
	}
	// refill
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
