package config

import (
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates the Redis client backing the dedupe trackers.
func NewRedisClient(cfg *RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,

		ConnMaxIdleTime: durationOrDefault(cfg.ConnMaxIdleTime, 30*time.Minute),
		ConnMaxLifetime: durationOrDefault(cfg.ConnMaxLifetime, time.Hour),
	}

	if cfg.EnableTLS {
		options.TLSConfig = &tls.Config{ServerName: cfg.Host}
	}

	return redis.NewClient(options)
}

// NewRedisClientWithDefaults creates a Redis client for local development
// and tests.
func NewRedisClientWithDefaults() *redis.Client {
	return NewRedisClient(&DefaultConfig().Redis)
}

func durationOrDefault(raw string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d == 0 {
		return def
	}
	return d
}
