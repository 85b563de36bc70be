package main

import (
	"context"
	"fmt"
	"log"

	dsmongo "dataprep/internal/dataset/adapter/persistence/mongodb"
	dsusecase "dataprep/internal/dataset/usecase"

	"github.com/spf13/cobra"
)

var (
	seedDatabase   string
	seedCollection string
	seedReset      bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the development database with fixture documents",
	Long: `seed creates the target collection if it does not exist and inserts
the fixed development fixtures. Safe to run repeatedly; --reset drops the
collection first so runs converge on exactly the fixtures.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, appLogger := loadConfig()
		if seedDatabase == "" {
			seedDatabase = cfg.Seed.Database
		}
		if seedCollection == "" {
			seedCollection = cfg.Seed.Collection
		}

		ctx := context.Background()
		client, err := connectMongo(ctx, cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(seedDatabase)
		repo := dsmongo.NewMongoDatasetRepository(db, appLogger)
		seeder := dsusecase.NewSeedUsecase(repo, seedDatabase, appLogger)

		result, err := seeder.Seed(ctx, seedCollection, seedReset)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		fmt.Println(result.Confirmation())
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedDatabase, "database", "", "target database (default from DATAPREP_SEED_DATABASE)")
	seedCmd.Flags().StringVar(&seedCollection, "collection", "", "target collection (default from DATAPREP_SEED_COLLECTION)")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "drop the collection before seeding")
	rootCmd.AddCommand(seedCmd)
}
