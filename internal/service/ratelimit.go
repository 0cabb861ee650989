package service

import (
	"math"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	bucketIdleExpiry   = 10 * time.Minute
	bucketCleanupEvery = 5 * time.Minute
)

// TokenBucket is an in-memory per-key rate limiter using the token bucket
// algorithm. It is safe for concurrent use. Buckets idle for ten minutes are
// evicted by the cache's janitor.
type TokenBucket struct {
	mu       sync.Mutex // serializes bucket creation
	buckets  *cache.Cache
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
}

type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a rate limiter that allows up to capacity tokens per
// key, refilling at the given rate (tokens per second).
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	return &TokenBucket{
		buckets:  cache.New(bucketIdleExpiry, bucketCleanupEvery),
		rate:     rate,
		capacity: capacity,
	}
}

// Allow reports whether the given key is allowed to proceed under the rate
// limit. Each call consumes one token.
func (tb *TokenBucket) Allow(key string) bool {
	b := tb.bucketFor(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	// Touch the entry so an active key is never evicted.
	tb.buckets.Set(key, b, cache.DefaultExpiration)

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) bucketFor(key string) *bucket {
	if v, ok := tb.buckets.Get(key); ok {
		return v.(*bucket)
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()
	if v, ok := tb.buckets.Get(key); ok {
		return v.(*bucket)
	}
	b := &bucket{tokens: tb.capacity, last: time.Now()}
	tb.buckets.Set(key, b, cache.DefaultExpiration)
	return b
}

// RetryAfter is how long an exhausted client waits for its next token.
// With a zero rate buckets only reset on eviction.
func (tb *TokenBucket) RetryAfter() time.Duration {
	if tb.rate <= 0 {
		return bucketIdleExpiry
	}
	return time.Duration(math.Ceil(1/tb.rate)) * time.Second
}

// Len returns the number of live buckets.
func (tb *TokenBucket) Len() int {
	return tb.buckets.ItemCount()
}
