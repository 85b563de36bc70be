package usecase

import (
	"context"
	"fmt"

	"dataprep/internal/dataset/adapter/file"
	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/dataset/domain/repository"
	pmodel "dataprep/internal/pipeline/domain/model"
	"dataprep/internal/shared/errors"
	"dataprep/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HubLoader fetches a named dataset from a remote hub.
type HubLoader interface {
	Load(ctx context.Context, name, split string) ([]*model.Record, error)
}

// DatasetService resolves job sources and sinks across MongoDB collections,
// local dataset files and the remote hub. It implements the pipeline
// module's RecordLoader and RecordSink ports.
type DatasetService struct {
	repo repository.DatasetRepository
	hub  HubLoader
	log  logger.Logger
}

// NewDatasetService wires a dataset service. hub may be nil when no hub is
// configured.
func NewDatasetService(repo repository.DatasetRepository, hub HubLoader, log logger.Logger) *DatasetService {
	if log == nil {
		log = logger.NewLogger()
	}
	return &DatasetService{repo: repo, hub: hub, log: log.WithComponent("dataset")}
}

// Load resolves a job source into records.
func (s *DatasetService) Load(ctx context.Context, source pmodel.SourceSpec) ([]*model.Record, error) {
	switch source.Kind {
	case pmodel.SourceCollection:
		return s.repo.LoadRecords(ctx, source.Name)
	case pmodel.SourceFile:
		return file.ReadRecords(source.Name, source.Format)
	case pmodel.SourceHub:
		if s.hub == nil {
			return nil, errors.NewValidationError("dataset hub is not configured")
		}
		// Format doubles as the split selector for hub sources.
		return s.hub.Load(ctx, source.Name, source.Format)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown source kind %q", source.Kind))
	}
}

// Write sends cleaned records to a job sink and returns the count written.
func (s *DatasetService) Write(ctx context.Context, sink pmodel.SinkSpec, records []*model.Record) (int, error) {
	switch sink.Kind {
	case pmodel.SinkCollection:
		if err := s.repo.EnsureCollection(ctx, sink.Name); err != nil {
			return 0, err
		}
		return s.repo.InsertRecords(ctx, sink.Name, stripIDs(records))
	case pmodel.SinkFile:
		if err := file.WriteRecords(sink.Name, sink.Format, records); err != nil {
			return 0, err
		}
		return len(records), nil
	default:
		return 0, errors.NewValidationError(fmt.Sprintf("unknown sink kind %q", sink.Kind))
	}
}

// ImportCSV loads a CSV file into a collection.
func (s *DatasetService) ImportCSV(ctx context.Context, path, collection string) (int, error) {
	records, err := file.ReadRecords(path, file.FormatCSV)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, errors.WrapError(errors.ErrEmptyDataset, fmt.Sprintf("no records in %q", path))
	}
	if err := s.repo.EnsureCollection(ctx, collection); err != nil {
		return 0, err
	}
	return s.repo.InsertRecords(ctx, collection, records)
}

// ExportCSV writes a collection's records to a CSV file.
func (s *DatasetService) ExportCSV(ctx context.Context, collection, path string) (int, error) {
	records, err := s.repo.LoadRecords(ctx, collection)
	if err != nil {
		return 0, err
	}
	if err := file.WriteRecords(path, file.FormatCSV, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// stripIDs clears object IDs so cleaned records insert as new documents
// instead of colliding with their source documents.
func stripIDs(records []*model.Record) []*model.Record {
	out := make([]*model.Record, 0, len(records))
	for _, record := range records {
		clone := record.Clone()
		clone.ID = primitive.NilObjectID
		out = append(out, clone)
	}
	return out
}
