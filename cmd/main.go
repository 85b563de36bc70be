package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"dataprep/internal/pipeline/config"
	"dataprep/internal/shared/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dataprep",
	Short: "Text dataset preprocessing service",
	Long: `dataprep cleans and annotates text datasets: it standardizes text,
filters low-quality records, removes duplicates and enriches records with
metadata. Datasets live in MongoDB collections or local CSV/JSON/JSONL
files, and cleaning runs either locally or as background jobs behind an
HTTP API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv("LOG_LEVEL", "debug")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig loads .env and the full service configuration.
func loadConfig() (*config.Config, logger.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg, logger.NewLogger()
}

// connectMongo connects and pings MongoDB.
func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
