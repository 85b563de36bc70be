package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// RedisConfig holds connection settings for the Redis-backed dedupe tracker.
type RedisConfig struct {
	Host            string `env:"REDIS_HOST" envDefault:"localhost"`
	Port            string `env:"REDIS_PORT" envDefault:"6379"`
	Password        string `env:"REDIS_PASSWORD" envDefault:""`
	Database        int    `env:"REDIS_DATABASE" envDefault:"0"`
	MaxRetries      int    `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool   `env:"REDIS_ENABLE_TLS" envDefault:"false"`
	ConnMaxIdleTime string `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime string `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`
}

// GetAddr returns the host:port address for the Redis client.
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// ClientSendChannelBuffer is the buffer size for channels sending
	// events to WebSocket clients, preventing blocking on slow clients.
	ClientSendChannelBuffer int `env:"CLIENT_SEND_CHANNEL_BUFFER" envDefault:"10"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// AuthConfig holds the JWT and admin-key settings for the API.
type AuthConfig struct {
	JWTSecretKey string        `env:"JWT_SECRET_KEY" envDefault:""`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"dataprep-service"`
	TokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// AdminKeyHash is the bcrypt hash of the admin key required by the
	// seed endpoint. Empty disables the endpoint.
	AdminKeyHash string `env:"ADMIN_KEY_HASH" envDefault:""`
}

// SeedConfig holds the defaults for the development seeder.
type SeedConfig struct {
	Database   string `env:"DATAPREP_SEED_DATABASE" envDefault:"dataprep_dev"`
	Collection string `env:"DATAPREP_SEED_COLLECTION" envDefault:"users"`
}

// Config holds all configuration for the dataprep service.
type Config struct {
	MongoDBURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATAPREP_DATABASE" envDefault:"dataprep_dev"`

	// HubBaseURL points at the dataset hub serving JSONL datasets.
	// Empty disables hub sources.
	HubBaseURL string `env:"DATASET_HUB_URL" envDefault:""`

	// DedupeTTL bounds how long Redis dedupe sets are kept. Zero keeps
	// them until an explicit reset.
	DedupeTTL time.Duration `env:"DEDUPE_TTL" envDefault:"0"`

	Redis  RedisConfig
	Server ServerConfig
	Auth   AuthConfig
	Seed   SeedConfig
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Server); err != nil {
		return nil, errors.New("failed to load server configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Auth); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Seed); err != nil {
		return nil, errors.New("failed to load seed configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.Server.ClientSendChannelBuffer <= 0 {
		cfg.Server.ClientSendChannelBuffer = 10
	}

	return cfg, nil
}

// DefaultConfig returns a Config with local development defaults.
func DefaultConfig() *Config {
	return &Config{
		MongoDBURI:   "mongodb://localhost:27017",
		DatabaseName: "dataprep_dev",
		Redis: RedisConfig{
			Host:            "localhost",
			Port:            "6379",
			MaxRetries:      3,
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: "30m",
			ConnMaxLifetime: "1h",
		},
		Server: ServerConfig{
			Host:                    "0.0.0.0",
			Port:                    "8080",
			ReadTimeout:             30 * time.Second,
			WriteTimeout:            30 * time.Second,
			ShutdownTimeout:         10 * time.Second,
			ClientSendChannelBuffer: 10,
		},
		Auth: AuthConfig{
			JWTIssuer: "dataprep-service",
			TokenTTL:  15 * time.Minute,
		},
		Seed: SeedConfig{
			Database:   "dataprep_dev",
			Collection: "users",
		},
	}
}
