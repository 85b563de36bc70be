package repository

import (
	"context"

	"dataprep/internal/dataset/domain/model"
)

// DatasetRepository is the persistence port for dataset collections.
type DatasetRepository interface {
	// EnsureCollection creates the collection if it does not exist yet.
	// An already existing collection is not an error.
	EnsureCollection(ctx context.Context, collection string) error

	// InsertRecords appends records to a collection and returns the number inserted.
	InsertRecords(ctx context.Context, collection string, records []*model.Record) (int, error)

	// LoadRecords returns every record in a collection.
	LoadRecords(ctx context.Context, collection string) ([]*model.Record, error)

	// GetRecord returns a single record by its hex object ID.
	GetRecord(ctx context.Context, collection, id string) (*model.Record, error)

	// CountRecords returns the number of documents in a collection.
	CountRecords(ctx context.Context, collection string) (int64, error)

	// ListCollections returns the collection names in the database.
	ListCollections(ctx context.Context) ([]string, error)

	// DropCollection removes a collection and its documents.
	DropCollection(ctx context.Context, collection string) error
}

// DedupeTracker is the port used by the dedupe cleaning step to remember
// which key values have been seen. Implementations exist in memory and on
// Redis for cross-process runs.
type DedupeTracker interface {
	// Seen records the value and reports whether it was already present.
	Seen(ctx context.Context, value string) (bool, error)

	// Reset clears the seen set for a fresh batch.
	Reset(ctx context.Context) error

	// Size returns the number of distinct values seen so far.
	Size(ctx context.Context) (int64, error)
}
