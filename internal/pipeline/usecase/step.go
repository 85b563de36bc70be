package usecase

import (
	"context"

	"dataprep/internal/dataset/domain/model"
)

// Step is a single cleaning stage. Process either transforms a record or
// filters it: a (nil, nil) return drops the record from the batch.
//
// Steps must not mutate their input record and must be safe for concurrent
// Process calls; Config returns only the step's static options, never
// per-record results.
type Step interface {
	Name() string
	Process(ctx context.Context, record *model.Record) (*model.Record, error)
	Config() map[string]interface{}
}
