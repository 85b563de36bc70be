package mongodb

import (
	"context"
	"fmt"
	"time"

	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/shared/errors"
	"dataprep/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const jobsCollection = "jobs"

// MongoJobStore implements the JobStore interface on MongoDB.
type MongoJobStore struct {
	collection *mongo.Collection
	log        logger.Logger
}

// NewMongoJobStore creates a job store and its indexes.
func NewMongoJobStore(db *mongo.Database, log logger.Logger) (*MongoJobStore, error) {
	if log == nil {
		log = logger.NewLogger()
	}
	store := &MongoJobStore{
		collection: db.Collection(jobsCollection),
		log:        log.WithComponent("job-store"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Index for listing recent jobs and filtering by status.
	_, err := store.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create job indexes: %w", err)
	}
	return store, nil
}

// CreateJob persists a new job.
func (s *MongoJobStore) CreateJob(ctx context.Context, job *model.Job) error {
	if job == nil || job.ID == "" {
		return errors.NewValidationError("job and job id must not be empty")
	}
	if _, err := s.collection.InsertOne(ctx, job); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.NewConflictError(fmt.Sprintf("job %s already exists", job.ID)).WithCause(err)
		}
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// UpdateJob replaces the stored job document.
func (s *MongoJobStore) UpdateJob(ctx context.Context, job *model.Job) error {
	if job == nil || job.ID == "" {
		return errors.NewValidationError("job and job id must not be empty")
	}
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError("job").WithCause(errors.ErrJobNotFound).WithDetail("id", job.ID)
	}
	return nil
}

// GetJob returns a job by ID.
func (s *MongoJobStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NewNotFoundError("job").WithCause(errors.ErrJobNotFound).WithDetail("id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job %s: %w", id, err)
	}
	return &job, nil
}

// ListJobs returns jobs newest first.
func (s *MongoJobStore) ListJobs(ctx context.Context, limit int64) ([]*model.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []*model.Job
	for cursor.Next(ctx) {
		var job model.Job
		if err := cursor.Decode(&job); err != nil {
			return nil, fmt.Errorf("failed to decode job: %w", err)
		}
		jobs = append(jobs, &job)
	}
	return jobs, cursor.Err()
}
