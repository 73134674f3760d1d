package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/smartinv/inventory-backend/pkg/logger"
	"github.com/smartinv/inventory-backend/pkg/metrics"
	"github.com/smartinv/inventory-backend/pkg/redis"
)

// kvStore is the subset of the redis client the cache relies on.
type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	ProductListKey() string
}

// ListCache holds the serialized product list under a single fixed key.
// All failures are soft; callers fall through to the database.
type ListCache struct {
	store   kvStore
	ttl     time.Duration
	metrics *metrics.InventoryMetrics
	logg    *logger.Logger
}

// NewListCache builds the product list cache. Metrics may be nil.
func NewListCache(store kvStore, ttl time.Duration, inventoryMetrics *metrics.InventoryMetrics, logg *logger.Logger) *ListCache {
	return &ListCache{
		store:   store,
		ttl:     ttl,
		metrics: inventoryMetrics,
		logg:    logg,
	}
}

// GetProductList returns the cached list and whether it was present.
func (c *ListCache) GetProductList(ctx context.Context) ([]ProductDTO, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	raw, err := c.store.Get(ctx, c.store.ProductListKey())
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn(ctx, "catalog cache read failed", err)
		}
		c.metrics.IncCacheMiss()
		return nil, false
	}

	var dtos []ProductDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		c.warn(ctx, "catalog cache payload corrupt", err)
		c.metrics.IncCacheMiss()
		return nil, false
	}

	c.metrics.IncCacheHit()
	return dtos, true
}

// SetProductList stores the list with the configured TTL, best-effort.
func (c *ListCache) SetProductList(ctx context.Context, dtos []ProductDTO) {
	if c == nil || c.store == nil {
		return
	}

	payload, err := json.Marshal(dtos)
	if err != nil {
		c.warn(ctx, "catalog cache marshal failed", err)
		return
	}
	if err := c.store.Set(ctx, c.store.ProductListKey(), payload, c.ttl); err != nil {
		c.warn(ctx, "catalog cache write failed", err)
	}
}

// InvalidateProductList drops the cached list. Mutators call this after
// their transaction commits.
func (c *ListCache) InvalidateProductList(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Del(ctx, c.store.ProductListKey())
}

func (c *ListCache) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Error(ctx, msg, err)
}
