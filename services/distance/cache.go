// File: services/distance/cache.go
package distance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"kigalimove/utils"

	"github.com/go-redis/redis/v8"
)

// RedisDistanceCache remembers estimated distances per address pair.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

func (s *RedisDistanceCache) Get(ctx context.Context, pickup, delivery string) (float64, bool, error) {
	data, err := s.client.Get(ctx, cacheKey(pickup, delivery)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	km, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return 0, false, err
	}
	return km, true, nil
}

func (s *RedisDistanceCache) Set(ctx context.Context, pickup, delivery string, km float64) error {
	return s.client.Set(ctx, cacheKey(pickup, delivery), strconv.FormatFloat(km, 'f', -1, 64), s.ttl).Err()
}

// cacheKey hashes the normalised address pair.
func cacheKey(pickup, delivery string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(pickup), " ")) + "|" +
		strings.ToLower(strings.Join(strings.Fields(delivery), " "))
	sum := sha256.Sum256([]byte(norm))
	return utils.DistanceCachePrefix + hex.EncodeToString(sum[:])
}
