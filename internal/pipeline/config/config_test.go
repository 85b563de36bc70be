package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDBURI)
	assert.Equal(t, "dataprep_dev", cfg.DatabaseName)
	assert.Empty(t, cfg.HubBaseURL)
	assert.Equal(t, time.Duration(0), cfg.DedupeTTL)

	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddr())
	assert.Equal(t, 10, cfg.Redis.PoolSize)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10, cfg.Server.ClientSendChannelBuffer)

	assert.Equal(t, "dataprep-service", cfg.Auth.JWTIssuer)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)

	assert.Equal(t, "dataprep_dev", cfg.Seed.Database)
	assert.Equal(t, "users", cfg.Seed.Collection)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")
	t.Setenv("DATAPREP_DATABASE", "corpus")
	t.Setenv("DATASET_HUB_URL", "http://hub:9000")
	t.Setenv("DEDUPE_TTL", "2h")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET_KEY", "topsecret")
	t.Setenv("DATAPREP_SEED_COLLECTION", "people")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoDBURI)
	assert.Equal(t, "corpus", cfg.DatabaseName)
	assert.Equal(t, "http://hub:9000", cfg.HubBaseURL)
	assert.Equal(t, 2*time.Hour, cfg.DedupeTTL)
	assert.Equal(t, "redis:6380", cfg.Redis.GetAddr())
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "topsecret", cfg.Auth.JWTSecretKey)
	assert.Equal(t, "people", cfg.Seed.Collection)
}

func TestLoadConfigFixesInvalidBuffer(t *testing.T) {
	t.Setenv("CLIENT_SEND_CHANNEL_BUFFER", "-5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Server.ClientSendChannelBuffer)
}

func TestDefaultConfigMatchesEnvDefaults(t *testing.T) {
	cfg := DefaultConfig()

	loaded, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, loaded.MongoDBURI, cfg.MongoDBURI)
	assert.Equal(t, loaded.Redis.GetAddr(), cfg.Redis.GetAddr())
	assert.Equal(t, loaded.Server.Addr(), cfg.Server.Addr())
	assert.Equal(t, loaded.Auth.JWTIssuer, cfg.Auth.JWTIssuer)
	assert.Equal(t, loaded.Seed, cfg.Seed)
}
