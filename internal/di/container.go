package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dataprep/internal/dataset"
	dsadapter "dataprep/internal/dataset/adapter/persistence"
	dsrepo "dataprep/internal/dataset/domain/repository"
	"dataprep/internal/pipeline"
	"dataprep/internal/pipeline/config"
	"dataprep/internal/pipeline/usecase"
	"dataprep/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container represents a dependency injection container with proper
// lifecycle management.
type Container struct {
	mu sync.RWMutex
	// Module instances
	DatasetModule  *dataset.DatasetModule
	PipelineModule *pipeline.PipelineModule
	// Connections
	MongoDB *mongo.Database
	Redis   *redis.Client
	// Configuration
	Config *config.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container.
func NewContainer() *Container {
	return &Container{}
}

// InitializeDataset initializes the dataset module.
func (c *Container) InitializeDataset(mongoDB *mongo.Database, cfg *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.Config = cfg
	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	c.DatasetModule = dataset.NewDatasetModule(mongoDB, cfg.HubBaseURL, c.Logger)
	return nil
}

// InitializeRedis connects the Redis client used for distributed dedupe
// tracking. Optional; without it dedupe falls back to memory.
func (c *Container) InitializeRedis(client *redis.Client) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	c.Redis = client
	return nil
}

// InitializePipeline initializes the pipeline module with dataset
// integration.
func (c *Container) InitializePipeline() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DatasetModule == nil {
		return fmt.Errorf("dataset module must be initialized before pipeline module")
	}
	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before pipeline module")
	}
	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	var trackerFactory usecase.TrackerFactory
	if c.Redis != nil {
		redisClient := c.Redis
		ttl := c.Config.DedupeTTL
		log := c.Logger
		trackerFactory = func(selectedKey string) dsrepo.DedupeTracker {
			// Fresh scope per tracker so concurrent jobs never share sets.
			return dsadapter.NewRedisDedupeTracker(redisClient, uuid.NewString(), selectedKey, ttl, log)
		}
	}

	service := c.DatasetModule.GetService()
	pipelineModule, err := pipeline.NewPipelineModule(
		c.MongoDB,
		service,
		service,
		c.DatasetModule.GetSeeder(),
		trackerFactory,
		c.Config,
		c.Logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline module: %w", err)
	}

	c.PipelineModule = pipelineModule
	return nil
}

// GetDatasetModule returns the dataset module instance.
func (c *Container) GetDatasetModule() *dataset.DatasetModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DatasetModule
}

// GetPipelineModule returns the pipeline module instance.
func (c *Container) GetPipelineModule() *pipeline.PipelineModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.PipelineModule
}

// HealthCheck performs health checks on the container's connections.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup performs cleanup of registered services with proper shutdown order.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.PipelineModule != nil {
		c.PipelineModule.Stop()
		c.PipelineModule = nil
	}
	if c.DatasetModule != nil {
		c.DatasetModule.Stop()
		c.DatasetModule = nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
		c.Redis = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down all services in the container with timeout.
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		return fmt.Errorf("cleanup errors occurred: %w", err)
	}
	return nil
}
