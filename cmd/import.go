package main

import (
	"context"
	"fmt"
	"log"

	dsmongo "dataprep/internal/dataset/adapter/persistence/mongodb"
	dsusecase "dataprep/internal/dataset/usecase"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv> <collection>",
	Short: "Import a CSV file into a MongoDB collection",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, appLogger := loadConfig()

		ctx := context.Background()
		client, err := connectMongo(ctx, cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer client.Disconnect(context.Background())

		repo := dsmongo.NewMongoDatasetRepository(client.Database(cfg.DatabaseName), appLogger)
		service := dsusecase.NewDatasetService(repo, nil, appLogger)

		inserted, err := service.ImportCSV(ctx, args[0], args[1])
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Imported %d records from %s into %s.%s\n", inserted, args[0], cfg.DatabaseName, args[1])
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <collection> <file.csv>",
	Short: "Export a MongoDB collection to a CSV file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, appLogger := loadConfig()

		ctx := context.Background()
		client, err := connectMongo(ctx, cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer client.Disconnect(context.Background())

		repo := dsmongo.NewMongoDatasetRepository(client.Database(cfg.DatabaseName), appLogger)
		service := dsusecase.NewDatasetService(repo, nil, appLogger)

		exported, err := service.ExportCSV(ctx, args[0], args[1])
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Exported %d records from %s.%s to %s\n", exported, cfg.DatabaseName, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
