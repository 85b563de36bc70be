package mongodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/shared/errors"
	"dataprep/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatasetRepository implements the DatasetRepository interface on a
// MongoDB database: one collection per dataset, one document per record.
type MongoDatasetRepository struct {
	db  *mongo.Database
	log logger.Logger
}

// NewMongoDatasetRepository creates a dataset repository over the given database.
func NewMongoDatasetRepository(db *mongo.Database, log logger.Logger) *MongoDatasetRepository {
	if log == nil {
		log = logger.NewLogger()
	}
	return &MongoDatasetRepository{db: db, log: log.WithComponent("dataset-repo")}
}

// EnsureCollection creates the collection if missing. MongoDB's
// NamespaceExists error is tolerated so repeated runs succeed.
func (r *MongoDatasetRepository) EnsureCollection(ctx context.Context, collection string) error {
	if err := validateCollectionName(collection); err != nil {
		return err
	}

	err := r.db.CreateCollection(ctx, collection)
	if err != nil {
		var cmdErr mongo.CommandError
		if stderrors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
			return nil
		}
		return fmt.Errorf("failed to create collection %q: %w", collection, err)
	}
	return nil
}

// InsertRecords appends records to the collection.
func (r *MongoDatasetRepository) InsertRecords(ctx context.Context, collection string, records []*model.Record) (int, error) {
	if err := validateCollectionName(collection); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, record := range records {
		if record == nil {
			return 0, errors.NewValidationError("record must not be nil").WithCause(errors.ErrInvalidRecord)
		}
		docs = append(docs, record)
	}

	result, err := r.db.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert records into %q: %w", collection, err)
	}
	return len(result.InsertedIDs), nil
}

// LoadRecords returns every record in the collection.
func (r *MongoDatasetRepository) LoadRecords(ctx context.Context, collection string) ([]*model.Record, error) {
	if err := validateCollectionName(collection); err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %q: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var records []*model.Record
	for cursor.Next(ctx) {
		var record model.Record
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, &record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error reading %q: %w", collection, err)
	}
	return records, nil
}

// GetRecord returns a single record by hex object ID.
func (r *MongoDatasetRepository) GetRecord(ctx context.Context, collection, id string) (*model.Record, error) {
	if err := validateCollectionName(collection); err != nil {
		return nil, err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid record id %q", id)).WithCause(err)
	}

	var record model.Record
	err = r.db.Collection(collection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NewNotFoundError("record").WithCause(errors.ErrRecordNotFound).
			WithDetail("collection", collection).WithDetail("id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record %s from %q: %w", id, collection, err)
	}
	return &record, nil
}

// CountRecords returns the number of documents in the collection.
func (r *MongoDatasetRepository) CountRecords(ctx context.Context, collection string) (int64, error) {
	if err := validateCollectionName(collection); err != nil {
		return 0, err
	}
	count, err := r.db.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in %q: %w", collection, err)
	}
	return count, nil
}

// ListCollections returns the collection names in the database.
func (r *MongoDatasetRepository) ListCollections(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.M{}, options.ListCollections().SetNameOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// DropCollection removes the collection.
func (r *MongoDatasetRepository) DropCollection(ctx context.Context, collection string) error {
	if err := validateCollectionName(collection); err != nil {
		return err
	}
	if err := r.db.Collection(collection).Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection %q: %w", collection, err)
	}
	return nil
}

func validateCollectionName(collection string) error {
	if collection == "" {
		return errors.NewValidationError("collection name must not be empty").
			WithCause(errors.ErrInvalidCollectionName)
	}
	if strings.ContainsAny(collection, "$\x00") || strings.HasPrefix(collection, "system.") {
		return errors.NewValidationError(fmt.Sprintf("invalid collection name %q", collection)).
			WithCause(errors.ErrInvalidCollectionName)
	}
	return nil
}
