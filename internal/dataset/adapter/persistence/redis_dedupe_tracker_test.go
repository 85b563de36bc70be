package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available for testing:", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisTrackerSeen(t *testing.T) {
	client := newTestRedisClient(t)
	tracker := NewRedisDedupeTracker(client, uuid.NewString(), "text", 0, nil)
	ctx := context.Background()
	defer tracker.Reset(ctx)

	seen, err := tracker.Seen(ctx, "hello world")
	require.NoError(t, err)
	assert.False(t, seen, "first occurrence is new")

	seen, err = tracker.Seen(ctx, "hello world")
	require.NoError(t, err)
	assert.True(t, seen, "second occurrence is a duplicate")

	seen, err = tracker.Seen(ctx, "different")
	require.NoError(t, err)
	assert.False(t, seen)

	size, err := tracker.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}

func TestRedisTrackerReset(t *testing.T) {
	client := newTestRedisClient(t)
	tracker := NewRedisDedupeTracker(client, uuid.NewString(), "text", 0, nil)
	ctx := context.Background()

	_, err := tracker.Seen(ctx, "value")
	require.NoError(t, err)
	require.NoError(t, tracker.Reset(ctx))

	seen, err := tracker.Seen(ctx, "value")
	require.NoError(t, err)
	assert.False(t, seen, "reset forgets previously seen values")

	tracker.Reset(ctx)
}

func TestRedisTrackerScopesAreIsolated(t *testing.T) {
	client := newTestRedisClient(t)
	ctx := context.Background()

	first := NewRedisDedupeTracker(client, uuid.NewString(), "text", 0, nil)
	second := NewRedisDedupeTracker(client, uuid.NewString(), "text", 0, nil)
	defer first.Reset(ctx)
	defer second.Reset(ctx)

	_, err := first.Seen(ctx, "shared value")
	require.NoError(t, err)

	seen, err := second.Seen(ctx, "shared value")
	require.NoError(t, err)
	assert.False(t, seen, "trackers with different scopes must not share state")
}

func TestRedisTrackerTTLIsApplied(t *testing.T) {
	client := newTestRedisClient(t)
	tracker := NewRedisDedupeTracker(client, uuid.NewString(), "text", time.Minute, nil)
	ctx := context.Background()
	defer tracker.Reset(ctx)

	_, err := tracker.Seen(ctx, "value")
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, tracker.key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
