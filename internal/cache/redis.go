package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 10 * time.Minute

// RedisCache keeps serialized calendar months in Redis with a fixed expiry,
// next to the per-month version counters that name them.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *log.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Connect parses a redis:// URL, configures the pool and checks the server
// answers before returning.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (cache *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		cache.warn("calendar cache get failed", key, err)
		return nil, false, err
	}
	return value, true, nil
}

func (cache *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := cache.client.Set(ctx, key, value, cache.ttl).Err(); err != nil {
		cache.warn("calendar cache set failed", key, err)
		return err
	}
	return nil
}

// Version reads a month counter. A missing counter is version zero.
func (cache *RedisCache) Version(ctx context.Context, key string) (int64, error) {
	version, err := cache.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		cache.warn("calendar cache version read failed", key, err)
		return 0, err
	}
	return version, nil
}

// Bump increments a month counter atomically across every instance sharing
// the Redis server. Counters carry no expiry.
func (cache *RedisCache) Bump(ctx context.Context, key string) (int64, error) {
	version, err := cache.client.Incr(ctx, key).Result()
	if err != nil {
		cache.warn("calendar cache version bump failed", key, err)
		return 0, err
	}
	return version, nil
}

func (cache *RedisCache) Close() error {
	return cache.client.Close()
}

func (cache *RedisCache) warn(message string, key string, err error) {
	if cache.logger != nil {
		cache.logger.Warn(message, "key", key, "err", err)
	}
}
