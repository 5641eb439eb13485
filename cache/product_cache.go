package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/common/logger"
)

const (
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"

	// DefaultTTL bounds staleness for cached product listings.
	DefaultTTL = 5 * time.Minute
)

// ProductCache is a version-keyed Redis cache for product listings.
// Product writes bump the version, which orphans every previously cached
// page; the orphans expire by TTL.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{
		redis: client,
		ttl:   DefaultTTL,
	}
}

// GetList retrieves a cached product listing into dest. It returns false
// on any miss or cache failure.
func (c *ProductCache) GetList(ctx context.Context, page, limit int, dest interface{}) bool {
	version, err := c.getVersion(ctx)
	if err != nil || version == 0 {
		return false
	}

	cached, err := c.redis.Get(ctx, c.listKey(version, page, limit)).Result()
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		logger.Log.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return false
	}

	return true
}

// SetListAsync caches a product listing without blocking the request.
func (c *ProductCache) SetListAsync(page, limit int, response interface{}) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := c.getVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		jsonBytes, err := json.Marshal(response)
		if err != nil {
			logger.Log.Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := c.redis.Set(bgCtx, c.listKey(version, page, limit), jsonBytes, c.ttl).Err(); err != nil {
			logger.Log.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// BumpVersion invalidates all cached listings.
func (c *ProductCache) BumpVersion(ctx context.Context) error {
	return c.redis.Incr(ctx, cacheVersionKey).Err()
}

func (c *ProductCache) getVersion(ctx context.Context) (int64, error) {
	version, err := c.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		return c.redis.Incr(ctx, cacheVersionKey).Result()
	}
	return version, err
}

func (c *ProductCache) listKey(version int64, page, limit int) string {
	return fmt.Sprintf("%s%d:page:%d:limit:%d", productListCachePrefix, version, page, limit)
}
