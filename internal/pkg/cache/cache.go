package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a small read-through JSON cache over Redis. A nil client disables
// caching entirely so the service works without Redis configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache. client may be nil.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get unmarshals the cached value at key into v. Returns false on miss or
// when caching is disabled. Redis failures are logged, not propagated: the
// cache is an optimization, never a source of request errors.
func (c *Cache) Get(ctx context.Context, key string, v interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupted, dropping")
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// Set stores v at key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Delete removes keys, used for invalidation on writes.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Cache invalidation failed")
	}
}
