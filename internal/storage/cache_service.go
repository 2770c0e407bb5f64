package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wealth-planner/internal/circuitbreaker"
)

// CacheService provides JSON-serialized caching for projection and timeline
// results on top of Redis. It satisfies the service layer's Cache interface.
//
// Redis calls go through a circuit breaker. While the circuit is open, reads
// report a miss and writes are skipped, so a Redis outage degrades to
// cache-off behavior instead of adding a timeout to every request.
type CacheService struct {
	redis   *RedisCache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis:   redis,
		ttl:     ttl,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("redis")),
	}
}

// circuitDenied reports whether the breaker rejected the call without
// reaching Redis.
func circuitDenied(err error) bool {
	return errors.Is(err, circuitbreaker.ErrCircuitOpen) ||
		errors.Is(err, circuitbreaker.ErrTooManyRequests)
}

// CacheKeyType represents different types of cache keys
type CacheKeyType string

const (
	// CacheKeyProjection is for projection results
	CacheKeyProjection CacheKeyType = "projection"
	// CacheKeyTimeline is for expanded timelines
	CacheKeyTimeline CacheKeyType = "timeline"
)

// GenerateCacheKey generates a cache key for a given type and parameters.
// Format: <type>:<param1>:<param2>:...
// Parameters are joined as-is; simulation IDs and enum tokens are
// case-sensitive.
func (c *CacheService) GenerateCacheKey(keyType CacheKeyType, params ...string) string {
	parts := append([]string{string(keyType)}, params...)
	return strings.Join(parts, ":")
}

// Set stores a value in cache with the configured TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value in cache with a custom TTL
func (c *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	err = c.breaker.Execute(ctx, func() error {
		return c.redis.Set(ctx, key, data, ttl)
	})
	if circuitDenied(err) {
		// Skip the write; the entry will be recomputed on the next request
		return nil
	}
	return err
}

// Get retrieves a value from cache and deserializes it into dest. The boolean
// reports whether the key was present; a miss is not an error.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data string
	found := false

	err := c.breaker.Execute(ctx, func() error {
		value, err := c.redis.Get(ctx, key)
		if errors.Is(err, redis.Nil) {
			// A miss is a healthy response, not a Redis failure
			return nil
		}
		if err != nil {
			return err
		}
		data = value
		found = true
		return nil
	})
	if err != nil {
		if circuitDenied(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}
	if !found {
		return false, nil
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

// Invalidate removes one or more keys from cache. When the circuit is open
// the error is returned so callers can log the skipped invalidation; entries
// still expire through their TTL.
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.breaker.Execute(ctx, func() error {
		return c.redis.Del(ctx, keys...)
	})
}

// InvalidatePattern removes all keys matching a pattern.
// Pattern examples: "projection:sim-1:*", "timeline:*"
func (c *CacheService) InvalidatePattern(ctx context.Context, pattern string) error {
	return c.breaker.Execute(ctx, func() error {
		keys, err := c.redis.Keys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to find keys matching pattern: %w", err)
		}

		if len(keys) == 0 {
			return nil
		}

		return c.redis.Del(ctx, keys...)
	})
}

// InvalidateSimulation drops every cached projection and timeline for a
// simulation
func (c *CacheService) InvalidateSimulation(ctx context.Context, simulationID string) error {
	for _, keyType := range []CacheKeyType{CacheKeyProjection, CacheKeyTimeline} {
		pattern := fmt.Sprintf("%s:%s:*", keyType, simulationID)
		if err := c.InvalidatePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate %s cache: %w", keyType, err)
		}
	}
	return nil
}

// Exists checks if a key exists in cache
func (c *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := c.breaker.Execute(ctx, func() error {
		var checkErr error
		exists, checkErr = c.redis.Exists(ctx, key)
		return checkErr
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Refresh updates the TTL on an existing key
func (c *CacheService) Refresh(ctx context.Context, key string) error {
	return c.breaker.Execute(ctx, func() error {
		return c.redis.Expire(ctx, key, c.ttl)
	})
}

// GetTTL returns the configured TTL for this cache service
func (c *CacheService) GetTTL() time.Duration {
	return c.ttl
}

// BreakerStats exposes the Redis circuit breaker counters
func (c *CacheService) BreakerStats() *circuitbreaker.Stats {
	return c.breaker.GetStats()
}
