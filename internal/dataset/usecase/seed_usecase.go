package usecase

import (
	"context"
	"fmt"

	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/dataset/domain/repository"
	"dataprep/internal/shared/logger"
)

// SeedRecords returns the fixed documents inserted by the seeder.
func SeedRecords() []*model.Record {
	return []*model.Record{
		model.FromMap(map[string]interface{}{"name": "Ada Lovelace", "email": "ada@example.com"}),
		model.FromMap(map[string]interface{}{"name": "Grace Hopper", "email": "grace@example.com"}),
	}
}

// SeedResult describes what a seeding run did.
type SeedResult struct {
	Database   string `json:"database"`
	Collection string `json:"collection"`
	Inserted   int    `json:"inserted"`
	Total      int64  `json:"total"`
}

// Confirmation renders the human-readable confirmation line.
func (r *SeedResult) Confirmation() string {
	return fmt.Sprintf("Seeded %s.%s with %d documents (%d total)", r.Database, r.Collection, r.Inserted, r.Total)
}

// SeedUsecase provisions a development database: it ensures the target
// collection exists and inserts the fixed seed documents.
type SeedUsecase struct {
	repo     repository.DatasetRepository
	database string
	log      logger.Logger
}

// NewSeedUsecase creates a seeder over the given repository. database is
// only used for reporting; the repository is already bound to it.
func NewSeedUsecase(repo repository.DatasetRepository, database string, log logger.Logger) *SeedUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &SeedUsecase{repo: repo, database: database, log: log.WithComponent("seed")}
}

// Seed creates the collection if needed and inserts the seed documents.
// With reset, the collection is dropped first so repeated runs converge on
// exactly the seed documents; without it, inserts append.
func (uc *SeedUsecase) Seed(ctx context.Context, collection string, reset bool) (*SeedResult, error) {
	if reset {
		if err := uc.repo.DropCollection(ctx, collection); err != nil {
			return nil, fmt.Errorf("failed to reset collection: %w", err)
		}
	}

	if err := uc.repo.EnsureCollection(ctx, collection); err != nil {
		return nil, err
	}

	inserted, err := uc.repo.InsertRecords(ctx, collection, SeedRecords())
	if err != nil {
		return nil, err
	}

	total, err := uc.repo.CountRecords(ctx, collection)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{
		Database:   uc.database,
		Collection: collection,
		Inserted:   inserted,
		Total:      total,
	}
	uc.log.Infof("%s", result.Confirmation())
	return result, nil
}
