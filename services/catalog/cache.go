package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"coursebook/models"
	"coursebook/utils"
)

const (
	programListKey = "catalog:programs"
	programListTTL = 5 * time.Minute
)

// ListingCache caches the public program listing. A nil cache on the
// service disables caching entirely.
type ListingCache interface {
	// GetPrograms returns the cached listing; ok is false on a miss.
	GetPrograms(ctx context.Context) (programs []models.Program, ok bool)
	// SetPrograms stores the listing.
	SetPrograms(ctx context.Context, programs []models.Program)
	// Invalidate drops the cached listing after a catalog mutation.
	Invalidate(ctx context.Context)
}

// RedisListingCache implements ListingCache on the shared Redis cache
// client. Cache failures are logged and treated as misses; the catalog
// never fails because the cache is down.
type RedisListingCache struct {
	Client *redis.Client
}

// NewRedisListingCache wraps a Redis client in the ListingCache interface.
func NewRedisListingCache(client *redis.Client) ListingCache {
	return &RedisListingCache{Client: client}
}

func (c *RedisListingCache) GetPrograms(ctx context.Context) ([]models.Program, bool) {
	data, err := c.Client.Get(ctx, programListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("program listing cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var programs []models.Program
	if err := json.Unmarshal(data, &programs); err != nil {
		utils.GetLogger().Warn("program listing cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	return programs, true
}

func (c *RedisListingCache) SetPrograms(ctx context.Context, programs []models.Program) {
	data, err := json.Marshal(programs)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, programListKey, data, programListTTL).Err(); err != nil {
		utils.GetLogger().Warn("program listing cache write failed", zap.Error(err))
	}
}

func (c *RedisListingCache) Invalidate(ctx context.Context) {
	if err := c.Client.Del(ctx, programListKey).Err(); err != nil {
		utils.GetLogger().Warn("program listing cache invalidation failed", zap.Error(err))
	}
}
