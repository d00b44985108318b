package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

const DefaultCurriculumKey = "lessonplan:curriculum:prompt_context"

// ContextCache stores the formatted curriculum block under a single key.
type ContextCache struct {
	rdb goredis.UniversalClient
	log *logger.Logger
	key string
	ttl time.Duration
}

func NewContextCache(rdb goredis.UniversalClient, log *logger.Logger, key string, ttl time.Duration) *ContextCache {
	if key == "" {
		key = DefaultCurriculumKey
	}
	return &ContextCache{
		rdb: rdb,
		log: log.With("service", "RedisContextCache", "key", key),
		key: key,
		ttl: ttl,
	}
}

// Get reports ok=false on a miss.
func (c *ContextCache) Get(ctx context.Context) (string, bool, error) {
	if c == nil || c.rdb == nil {
		return "", false, nil
	}
	val, err := c.rdb.Get(ctx, c.key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	return val, true, nil
}

func (c *ContextCache) Set(ctx context.Context, value string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if err := c.rdb.Set(ctx, c.key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *ContextCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		c.log.Warn("Curriculum cache invalidation failed", "error", err)
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
