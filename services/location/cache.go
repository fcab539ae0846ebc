package location

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLevelCache stores dropdown values as JSON arrays.
type RedisLevelCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLevelCache(client *redis.Client, ttl time.Duration) *RedisLevelCache {
	return &RedisLevelCache{client: client, ttl: ttl}
}

func (c *RedisLevelCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false, err
	}
	return values, true, nil
}

func (c *RedisLevelCache) Set(ctx context.Context, key string, values []string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
