package community

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedClient wraps a Client with a Redis cache so repeated registrations
// against the same community do not hammer the registry. Existence answers
// are cached both ways; a community coming into existence is picked up after
// the TTL lapses.
//
// Cache failures degrade to a direct registry call, never to a request
// failure.
type CachedClient struct {
	inner  Client
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedClient decorates a registry client with a Redis cache.
func NewCachedClient(inner Client, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedClient {
	return &CachedClient{inner: inner, redis: rdb, ttl: ttl, logger: logger}
}

func (c *CachedClient) DoesCommunityExist(ctx context.Context, uniqID string) (bool, error) {
	key := cacheKey(uniqID)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case err != redis.Nil:
		c.logger.WarnContext(ctx, "community cache read failed", "uniq_id", uniqID, "error", err)
	}

	exists, err := c.inner.DoesCommunityExist(ctx, uniqID)
	if err != nil {
		return false, err
	}

	value := "0"
	if exists {
		value = "1"
	}
	if err := c.redis.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "community cache write failed", "uniq_id", uniqID, "error", err)
	}
	return exists, nil
}

func cacheKey(uniqID string) string {
	return fmt.Sprintf("community:exists:%s", uniqID)
}
