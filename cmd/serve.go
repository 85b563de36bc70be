package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dataprep/internal/di"
	"dataprep/internal/pipeline/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var serveNoRedis bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the preprocessing HTTP API",
	Long: `serve starts the HTTP API: job submission and inspection under
/api/v1/jobs, the development seeder under /api/v1/seed and live job
progress over WebSocket under /api/v1/ws/jobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, appLogger := loadConfig()

		container := di.NewContainer()
		container.Logger = appLogger
		defer func() {
			if err := container.Close(); err != nil {
				appLogger.Error("Failed to close container: ", err)
			}
		}()

		ctx := context.Background()
		mongoClient, err := connectMongo(ctx, cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLogger.Error("Failed to disconnect MongoDB: ", err)
			}
		}()
		appLogger.Info("MongoDB connection established successfully")

		mongoDB := mongoClient.Database(cfg.DatabaseName)
		if err := container.InitializeDataset(mongoDB, cfg); err != nil {
			log.Fatalf("Failed to initialize dataset module: %v", err)
		}
		appLogger.Info("Dataset module initialized successfully")

		if !serveNoRedis {
			if err := container.InitializeRedis(config.NewRedisClient(&cfg.Redis)); err != nil {
				appLogger.Warn("Redis unavailable, falling back to in-memory dedupe: ", err)
			}
		}

		if err := container.InitializePipeline(); err != nil {
			log.Fatalf("Failed to initialize pipeline module: %v", err)
		}
		appLogger.Info("Pipeline module initialized successfully")

		app := fiber.New(fiber.Config{
			AppName:      "dataprep API v1.0",
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  60 * time.Second,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				appLogger.Error("HTTP Error: ", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Internal Server Error",
				})
			},
		})

		pipelineModule := container.GetPipelineModule()
		middleware := pipelineModule.GetMiddleware()

		app.Use(recover.New())
		app.Use(middleware.CORS())
		app.Use(middleware.RequestID())

		app.Get("/healthz", func(c *fiber.Ctx) error {
			healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
			defer cancel()

			if err := container.HealthCheck(healthCtx); err != nil {
				appLogger.Error("Health check failed: ", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "UNHEALTHY",
					"error":  err.Error(),
				})
			}
			return c.JSON(fiber.Map{
				"status":    "HEALTHY",
				"timestamp": time.Now().UTC(),
			})
		})

		api := app.Group("/api/v1")
		pipelineModule.RegisterRoutes(api)
		appLogger.Info("Job routes and realtime services registered")

		serverAddr := cfg.Server.Addr()
		appLogger.Infof("All modules initialized. Starting HTTP server on %s", serverAddr)

		serverShutdown := make(chan error, 1)
		go func() {
			serverShutdown <- app.Listen(serverAddr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-serverShutdown:
			if err != nil {
				log.Fatalf("Server startup failed: %v", err)
			}
		case sig := <-quit:
			appLogger.Infof("Received shutdown signal: %v", sig)
			fmt.Println("Shutting down server gracefully...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				appLogger.Error("Server forced to shutdown: ", err)
			}
			appLogger.Info("HTTP server stopped")
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoRedis, "no-redis", false, "disable Redis-backed dedupe tracking")
	rootCmd.AddCommand(serveCmd)
}
