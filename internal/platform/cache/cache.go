// Package cache provides a short-lived read-through cache for the Daily
// Coach's briefing, backed by Redis. A cache miss or a disconnected client
// is never an error the caller needs to handle: the orchestrator falls
// back to recomputing the briefing from the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/interviewcoach/coach/internal/platform/logger"
)

// Cache is the boundary the orchestrator drives for briefing caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type redisCache struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewRedisCache connects to addr and pings it once so construction fails
// fast if Redis is unreachable, rather than surfacing on the first request.
func NewRedisCache(addr string, log *logger.Logger) (Cache, error) {
	if addr == "" {
		return nil, fmt.Errorf("cache: missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}

	return &redisCache{rdb: rdb, log: log.With("component", "briefing_cache")}, nil
}

func (c *redisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: delete: %w", err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}

// BriefingKey is the cache key for a user's briefing on a given day.
func BriefingKey(userID, date string) string {
	return fmt.Sprintf("briefing:%s:%s", userID, date)
}
