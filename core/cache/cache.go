package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moimo-team/moaclass-back/core/logger"
)

const tokenBlacklistPrefix = "token:blacklist:"

// Cache is the Redis-backed store used by the auth middleware for revoked
// token lookups.
type Cache interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	Close() error
}

type redisCache struct {
	client *redis.Client
}

type CacheConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewCache(cfg CacheConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, tokenBlacklistPrefix+token).Result()
	if err != nil {
		logger.Error("Cache:IsTokenBlacklisted:Error:", err)
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, tokenBlacklistPrefix+token, "1", ttl).Err(); err != nil {
		logger.Error("Cache:AddToTokenBlacklist:Error:", err)
		return err
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
