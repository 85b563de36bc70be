package persistence

import (
	"context"
	"fmt"
	"time"

	"dataprep/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisDedupeTracker implements the DedupeTracker port on a Redis set so
// dedupe state survives process restarts and is shared across workers.
type RedisDedupeTracker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisDedupeTracker creates a tracker whose seen set lives under
// "dataprep:dedupe:<scope>:<selectedKey>". A non-zero ttl expires the set
// after the batch is done with it.
func NewRedisDedupeTracker(client *redis.Client, scope, selectedKey string, ttl time.Duration, log logger.Logger) *RedisDedupeTracker {
	if log == nil {
		log = logger.NewLogger()
	}
	return &RedisDedupeTracker{
		client: client,
		key:    fmt.Sprintf("dataprep:dedupe:%s:%s", scope, selectedKey),
		ttl:    ttl,
		logger: log.WithComponent("redis-dedupe"),
	}
}

// Seen adds the value to the set; SADD reports whether it was new.
func (t *RedisDedupeTracker) Seen(ctx context.Context, value string) (bool, error) {
	added, err := t.client.SAdd(ctx, t.key, value).Result()
	if err != nil {
		t.logger.Error("Failed to update dedupe set", zap.String("key", t.key), zap.Error(err))
		return false, err
	}
	if t.ttl > 0 {
		if err := t.client.Expire(ctx, t.key, t.ttl).Err(); err != nil {
			t.logger.Warn("Failed to refresh dedupe set TTL", zap.String("key", t.key), zap.Error(err))
		}
	}
	return added == 0, nil
}

// Reset deletes the seen set.
func (t *RedisDedupeTracker) Reset(ctx context.Context) error {
	if err := t.client.Del(ctx, t.key).Err(); err != nil {
		t.logger.Error("Failed to reset dedupe set", zap.String("key", t.key), zap.Error(err))
		return err
	}
	return nil
}

// Size returns the cardinality of the seen set.
func (t *RedisDedupeTracker) Size(ctx context.Context) (int64, error) {
	size, err := t.client.SCard(ctx, t.key).Result()
	if err != nil {
		return 0, err
	}
	return size, nil
}
