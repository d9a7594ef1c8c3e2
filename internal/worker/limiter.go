package worker

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// DefaultMaxKeys bounds the number of tracked keys when none is given
const DefaultMaxKeys = 10000

// Limiter implements per-key rate limiting. Keys are client IPs for inbound
// requests and service hosts for outbound ones. The least recently used
// keys are forgotten once the key set is full.
type Limiter struct {
	limiters     *lru.Cache[string, *rate.Limiter]
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter tracking up to maxKeys keys
func NewLimiter(requestsPerSecond float64, burst int, maxKeys int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	limiters, _ := lru.New[string, *rate.Limiter](maxKeys) // only fails for a non-positive size

	return &Limiter{
		limiters:     limiters,
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until key may proceed
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow checks if key may proceed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// getLimiter returns the rate limiter for a key, creating it on first use
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Get(key); ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters.Get(key); ok {
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters.Add(key, limiter)
	return limiter
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	return l.limiters.Len()
}
