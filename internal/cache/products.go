package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Skotchmaster/sweetshop/internal/models"
	"github.com/redis/go-redis/v9"
)

const productTTL = 5 * time.Minute

// ProductCache is a read-through cache for catalog point lookups. A nil
// *ProductCache is valid and bypasses redis entirely, so the server runs
// without a cache when REDIS_ADDR is not configured.
type ProductCache struct {
	rdb *redis.Client
}

func NewProductCache(addr string) *ProductCache {
	if addr == "" {
		return nil
	}
	return &ProductCache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) Get(ctx context.Context, id uint) (*models.Product, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis get failed, falling back to db", "error", err)
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		slog.Warn("cached product unmarshal failed, falling back to db", "error", err)
		return nil, false
	}

	return &product, true
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) {
	if c == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		slog.Warn("product marshal failed, skipping cache", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, productKey(product.ID), data, productTTL).Err(); err != nil {
		slog.Warn("redis set failed", "error", err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		slog.Warn("redis del failed", "error", err)
	}
}

// InvalidateRefs drops cache entries for every managed product among the
// given catalog refs. Stock reservation and rating recomputation mutate
// products outside the product handlers, so their callers invalidate here.
func (c *ProductCache) InvalidateRefs(ctx context.Context, refs ...string) {
	if c == nil {
		return
	}
	for _, ref := range refs {
		if id, ok := models.ManagedProductID(ref); ok {
			c.Invalidate(ctx, id)
		}
	}
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
