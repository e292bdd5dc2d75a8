// Package cache provides short-TTL read-through caching for cart and
// order line views. Redis outages degrade to direct reads, never to
// request failures.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache wraps a redis-backed JSON cache with hit/miss accounting.
type Cache struct {
	store   store
	logg    *logger.Logger
	metrics *metrics.ShopMetrics
}

// New builds a cache over the provided store.
func New(store store, logg *logger.Logger, shopMetrics *metrics.ShopMetrics) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Cache{store: store, logg: logg, metrics: shopMetrics}, nil
}

// GetJSON reads key into dest, reporting whether the entry was present.
// Store failures are logged and reported as misses.
func (c *Cache) GetJSON(ctx context.Context, view, key string, dest any) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logg.Warn(ctx, fmt.Sprintf("cache read failed for %s: %v", key, err))
		}
		c.metrics.IncCacheMiss(view)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.logg.Warn(ctx, fmt.Sprintf("cache entry for %s is corrupt: %v", key, err))
		c.metrics.IncCacheMiss(view)
		return false
	}
	c.metrics.IncCacheHit(view)
	return true
}

// SetJSON stores value under key with the provided TTL. Failures are
// logged and otherwise ignored.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logg.Warn(ctx, fmt.Sprintf("cache marshal failed for %s: %v", key, err))
		return
	}
	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		c.logg.Warn(ctx, fmt.Sprintf("cache write failed for %s: %v", key, err))
	}
}

// Invalidate removes the provided keys. Failures are logged and
// otherwise ignored; a stale entry expires with its TTL.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		c.logg.Warn(ctx, fmt.Sprintf("cache invalidation failed for %v: %v", keys, err))
	}
}
