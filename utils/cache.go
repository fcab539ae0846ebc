// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"kigalimove/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (locations, distances).
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for login sessions.
	AuthCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

// InitCache initializes the generic Redis cache client. The cache is optional,
// so an unreachable server is only logged; callers treat cache errors as misses.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := CacheClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis (Cache) unavailable, continuing without cache: %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache initializes the Redis client holding sessions.
func InitAuthCache() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AuthCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for sessions.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// QueueRedisOpt returns the connection settings used by the task queue.
func QueueRedisOpt() (addr, password string, db int) {
	return config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisQueueDB
}
