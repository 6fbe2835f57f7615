package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProductCountCache caches the per-business product count that discovery
// responses embed. Counts are computed at read time from the store; the
// cache only bounds how often that count query runs per business.
type ProductCountCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewProductCountCache creates a new ProductCountCache.
func NewProductCountCache(redis *RedisClient, ttl time.Duration) *ProductCountCache {
	return &ProductCountCache{redis: redis, ttl: ttl}
}

func (c *ProductCountCache) key(businessID uuid.UUID) string {
	return fmt.Sprintf("discovery:product-count:%s", businessID)
}

// Get returns the cached count for a business, or found=false on a miss.
func (c *ProductCountCache) Get(ctx context.Context, businessID uuid.UUID) (int, bool, error) {
	raw, err := c.redis.Get(ctx, c.key(businessID))
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Corrupt entry: treat as a miss so the caller recomputes it.
		return 0, false, nil
	}
	return n, true, nil
}

// Set stores the count for a business with the configured TTL.
func (c *ProductCountCache) Set(ctx context.Context, businessID uuid.UUID, count int) error {
	return c.redis.Set(ctx, c.key(businessID), strconv.Itoa(count), c.ttl)
}

// Invalidate removes the cached count for a business.
func (c *ProductCountCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	return c.redis.Delete(ctx, c.key(businessID))
}
