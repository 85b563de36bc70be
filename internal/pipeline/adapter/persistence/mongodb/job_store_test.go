package mongodb_test

import (
	"context"
	"testing"
	"time"

	"dataprep/internal/pipeline/adapter/persistence/mongodb"
	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/shared/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type JobStoreTestSuite struct {
	suite.Suite
	client   *mongo.Client
	database *mongo.Database
	store    *mongodb.MongoJobStore
}

func (suite *JobStoreTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		suite.T().Skip("MongoDB not available for testing:", err)
		return
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		suite.T().Skip("MongoDB not available for testing:", err)
		return
	}

	suite.client = client
	suite.database = client.Database("dataprep_jobs_test_db")

	store, err := mongodb.NewMongoJobStore(suite.database, nil)
	require.NoError(suite.T(), err)
	suite.store = store
}

func (suite *JobStoreTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.database.Drop(context.Background())
		suite.client.Disconnect(context.Background())
	}
}

func newStoredJob() *model.Job {
	return &model.Job{
		ID:        uuid.NewString(),
		Source:    model.SourceSpec{Kind: model.SourceCollection, Name: "raw"},
		Sink:      model.SinkSpec{Kind: model.SinkNone},
		Steps:     []model.StepSpec{{Step: "standardizer"}},
		Status:    model.JobStatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func (suite *JobStoreTestSuite) TestCreateAndGetJob() {
	ctx := context.Background()
	job := newStoredJob()

	require.NoError(suite.T(), suite.store.CreateJob(ctx, job))

	got, err := suite.store.GetJob(ctx, job.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), job.ID, got.ID)
	assert.Equal(suite.T(), model.JobStatusPending, got.Status)
	assert.Equal(suite.T(), "raw", got.Source.Name)
}

func (suite *JobStoreTestSuite) TestCreateDuplicateJobConflicts() {
	ctx := context.Background()
	job := newStoredJob()

	require.NoError(suite.T(), suite.store.CreateJob(ctx, job))
	err := suite.store.CreateJob(ctx, job)
	assert.True(suite.T(), errors.IsConflict(err))
}

func (suite *JobStoreTestSuite) TestUpdateJob() {
	ctx := context.Background()
	job := newStoredJob()
	require.NoError(suite.T(), suite.store.CreateJob(ctx, job))

	job.Status = model.JobStatusCompleted
	job.Report = &model.Report{In: 10, Out: 7}
	require.NoError(suite.T(), suite.store.UpdateJob(ctx, job))

	got, err := suite.store.GetJob(ctx, job.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.JobStatusCompleted, got.Status)
	require.NotNil(suite.T(), got.Report)
	assert.Equal(suite.T(), 7, got.Report.Out)
}

func (suite *JobStoreTestSuite) TestUpdateMissingJobNotFound() {
	job := newStoredJob()
	err := suite.store.UpdateJob(context.Background(), job)
	assert.True(suite.T(), errors.IsNotFound(err))
}

func (suite *JobStoreTestSuite) TestGetMissingJobNotFound() {
	_, err := suite.store.GetJob(context.Background(), uuid.NewString())
	assert.True(suite.T(), errors.IsNotFound(err))
}

func (suite *JobStoreTestSuite) TestListJobsNewestFirst() {
	ctx := context.Background()
	older := newStoredJob()
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newStoredJob()

	require.NoError(suite.T(), suite.store.CreateJob(ctx, older))
	require.NoError(suite.T(), suite.store.CreateJob(ctx, newer))

	jobs, err := suite.store.ListJobs(ctx, 2)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), jobs, 2)
	assert.True(suite.T(), !jobs[0].CreatedAt.Before(jobs[1].CreatedAt))
}

func TestJobStoreTestSuite(t *testing.T) {
	suite.Run(t, new(JobStoreTestSuite))
}
