package repository

import (
	"context"

	"dataprep/internal/pipeline/domain/model"
)

// JobStore is the persistence port for preprocessing jobs.
type JobStore interface {
	// CreateJob persists a new job. The job ID must be unique.
	CreateJob(ctx context.Context, job *model.Job) error

	// UpdateJob replaces the stored job with the given state.
	UpdateJob(ctx context.Context, job *model.Job) error

	// GetJob returns a job by ID, or errors.ErrJobNotFound.
	GetJob(ctx context.Context, id string) (*model.Job, error)

	// ListJobs returns jobs sorted by creation time, newest first.
	ListJobs(ctx context.Context, limit int64) ([]*model.Job, error)
}
