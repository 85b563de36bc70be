package dataset

import (
	"dataprep/internal/dataset/adapter/hub"
	"dataprep/internal/dataset/adapter/persistence/mongodb"
	"dataprep/internal/dataset/domain/repository"
	"dataprep/internal/dataset/usecase"
	"dataprep/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// DatasetModule bundles dataset storage, file IO and the seeder.
type DatasetModule struct {
	repository repository.DatasetRepository
	service    *usecase.DatasetService
	seeder     *usecase.SeedUsecase
}

// NewDatasetModule creates the dataset module. hubBaseURL may be empty to
// disable hub sources.
func NewDatasetModule(db *mongo.Database, hubBaseURL string, log logger.Logger) *DatasetModule {
	repo := mongodb.NewMongoDatasetRepository(db, log)

	var hubLoader usecase.HubLoader
	if hubBaseURL != "" {
		hubLoader = hub.NewLoader(hubBaseURL, log)
	}

	return &DatasetModule{
		repository: repo,
		service:    usecase.NewDatasetService(repo, hubLoader, log),
		seeder:     usecase.NewSeedUsecase(repo, db.Name(), log),
	}
}

// GetRepository returns the dataset repository.
func (dm *DatasetModule) GetRepository() repository.DatasetRepository {
	return dm.repository
}

// GetService returns the dataset service used as the pipeline's record
// loader and sink.
func (dm *DatasetModule) GetService() *usecase.DatasetService {
	return dm.service
}

// GetSeeder returns the development seeder.
func (dm *DatasetModule) GetSeeder() *usecase.SeedUsecase {
	return dm.seeder
}

// Stop performs cleanup when the module is shut down.
func (dm *DatasetModule) Stop() error {
	return nil
}
