package usecase

import (
	"context"
	"fmt"
	"testing"

	"dataprep/internal/dataset/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory DatasetRepository for usecase tests.
type fakeRepo struct {
	collections map[string][]*model.Record
	ensureErr   error
	insertErr   error
	dropErr     error
	dropped     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{collections: make(map[string][]*model.Record)}
}

func (r *fakeRepo) EnsureCollection(ctx context.Context, collection string) error {
	if r.ensureErr != nil {
		return r.ensureErr
	}
	if _, ok := r.collections[collection]; !ok {
		r.collections[collection] = nil
	}
	return nil
}

func (r *fakeRepo) InsertRecords(ctx context.Context, collection string, records []*model.Record) (int, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.collections[collection] = append(r.collections[collection], records...)
	return len(records), nil
}

func (r *fakeRepo) LoadRecords(ctx context.Context, collection string) ([]*model.Record, error) {
	records, ok := r.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}
	return records, nil
}

func (r *fakeRepo) GetRecord(ctx context.Context, collection, id string) (*model.Record, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeRepo) CountRecords(ctx context.Context, collection string) (int64, error) {
	return int64(len(r.collections[collection])), nil
}

func (r *fakeRepo) ListCollections(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	return names, nil
}

func (r *fakeRepo) DropCollection(ctx context.Context, collection string) error {
	if r.dropErr != nil {
		return r.dropErr
	}
	r.dropped = append(r.dropped, collection)
	delete(r.collections, collection)
	return nil
}

func TestSeedRecordsFixture(t *testing.T) {
	records := SeedRecords()
	require.Len(t, records, 2)

	assert.Equal(t, "Ada Lovelace", records[0].StringField("name", ""))
	assert.Equal(t, "ada@example.com", records[0].StringField("email", ""))
	assert.Equal(t, "Grace Hopper", records[1].StringField("name", ""))
	assert.Equal(t, "grace@example.com", records[1].StringField("email", ""))
}

func TestSeedInsertsFixtures(t *testing.T) {
	repo := newFakeRepo()
	seeder := NewSeedUsecase(repo, "dataprep_dev", nil)

	result, err := seeder.Seed(context.Background(), "users", false)
	require.NoError(t, err)

	assert.Equal(t, "dataprep_dev", result.Database)
	assert.Equal(t, "users", result.Collection)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, "Seeded dataprep_dev.users with 2 documents (2 total)", result.Confirmation())
	assert.Empty(t, repo.dropped)
}

func TestSeedIsRepeatableWithoutReset(t *testing.T) {
	repo := newFakeRepo()
	seeder := NewSeedUsecase(repo, "dataprep_dev", nil)

	_, err := seeder.Seed(context.Background(), "users", false)
	require.NoError(t, err)
	result, err := seeder.Seed(context.Background(), "users", false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, int64(4), result.Total, "inserts append without reset")
}

func TestSeedResetDropsFirst(t *testing.T) {
	repo := newFakeRepo()
	seeder := NewSeedUsecase(repo, "dataprep_dev", nil)

	_, err := seeder.Seed(context.Background(), "users", false)
	require.NoError(t, err)
	result, err := seeder.Seed(context.Background(), "users", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"users"}, repo.dropped)
	assert.Equal(t, int64(2), result.Total, "reset converges on exactly the fixtures")
}

func TestSeedPropagatesErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.ensureErr = fmt.Errorf("no permission")
	seeder := NewSeedUsecase(repo, "dataprep_dev", nil)

	_, err := seeder.Seed(context.Background(), "users", false)
	assert.ErrorContains(t, err, "no permission")

	repo = newFakeRepo()
	repo.dropErr = fmt.Errorf("drop denied")
	seeder = NewSeedUsecase(repo, "dataprep_dev", nil)

	_, err = seeder.Seed(context.Background(), "users", true)
	assert.ErrorContains(t, err, "drop denied")
}
