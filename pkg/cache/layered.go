package cache

import (
	"context"
	"encoding/json"
	"time"
)

// LayeredCache implements a two-level cache: a small local L1 in front of a
// shared L2 (Redis in production).
type LayeredCache struct {
	l1    Service
	l2    Service
	l1TTL time.Duration
}

// NewLayeredCache creates a layered cache. l1TTL bounds how long an L2 hit is
// kept locally.
func NewLayeredCache(l1, l2 Service, l1TTL time.Duration) *LayeredCache {
	return &LayeredCache{l1: l1, l2: l2, l1TTL: l1TTL}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// write-through: L2 first
	if err := lc.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.l1.Set(ctx, key, value, lc.localTTL(expiration))
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.l1.Get(ctx, key, dest); err == nil {
		return nil
	}

	var raw json.RawMessage
	if err := lc.l2.Get(ctx, key, &raw); err != nil {
		return err
	}
	_ = lc.l1.Set(ctx, key, raw, lc.l1TTL)
	return json.Unmarshal(raw, dest)
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.l1.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

func (lc *LayeredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	_ = lc.l1.DeleteByPattern(ctx, pattern)
	return lc.l2.DeleteByPattern(ctx, pattern)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.l1.Close()
	return lc.l2.Close()
}

func (lc *LayeredCache) localTTL(expiration time.Duration) time.Duration {
	if expiration > 0 && expiration < lc.l1TTL {
		return expiration
	}
	return lc.l1TTL
}
