package usecase

import (
	"context"
	"fmt"
	"time"

	dsmodel "dataprep/internal/dataset/domain/model"
	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/pipeline/domain/repository"
	"dataprep/internal/shared/errors"
	"dataprep/internal/shared/eventbus"
	"dataprep/internal/shared/logger"
	"dataprep/internal/shared/utils"

	"github.com/google/uuid"
)

// RecordLoader resolves a job source into a batch of records.
type RecordLoader interface {
	Load(ctx context.Context, source model.SourceSpec) ([]*dsmodel.Record, error)
}

// RecordSink writes cleaned records to a job sink and returns the count written.
type RecordSink interface {
	Write(ctx context.Context, sink model.SinkSpec, records []*dsmodel.Record) (int, error)
}

// SubmitJobRequest describes a preprocessing job to run.
type SubmitJobRequest struct {
	Source model.SourceSpec `json:"source"`
	Sink   model.SinkSpec   `json:"sink"`
	// Steps overrides the default cleaning chain when non-empty.
	Steps []model.StepSpec `json:"steps,omitempty"`
}

// JobUsecase creates and executes preprocessing jobs.
type JobUsecase struct {
	store   repository.JobStore
	loader  RecordLoader
	sink    RecordSink
	builder *StepBuilder
	bus     *eventbus.EventBus
	log     logger.Logger
}

// NewJobUsecase wires a job usecase.
func NewJobUsecase(
	store repository.JobStore,
	loader RecordLoader,
	sink RecordSink,
	builder *StepBuilder,
	bus *eventbus.EventBus,
	log logger.Logger,
) *JobUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &JobUsecase{
		store:   store,
		loader:  loader,
		sink:    sink,
		builder: builder,
		bus:     bus,
		log:     log.WithComponent("jobs"),
	}
}

// Submit validates the request, persists a pending job and starts it in the
// background. The returned job reflects the pending state.
func (uc *JobUsecase) Submit(ctx context.Context, req SubmitJobRequest) (*model.Job, error) {
	if err := validateSubmitRequest(req); err != nil {
		return nil, err
	}

	steps := req.Steps
	if len(steps) == 0 {
		steps = DefaultStepSpecs()
	}
	// Fail fast on specs that do not build.
	if _, err := uc.builder.BuildAll(steps); err != nil {
		return nil, err
	}

	job := &model.Job{
		ID:        uuid.NewString(),
		Source:    req.Source,
		Sink:      req.Sink,
		Steps:     steps,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	// The job outlives the submitting request. The goroutine gets its own
	// copy so mutations during the run never race with the caller reading
	// the returned pending job.
	runJob := *job
	go func() {
		runCtx := utils.WithJobID(context.Background(), runJob.ID)
		if err := uc.Run(runCtx, &runJob); err != nil {
			uc.log.WithContext(runCtx).Errorf("job failed: %v", err)
		}
	}()

	return job, nil
}

// Run executes a job synchronously, updating its persisted state and
// publishing lifecycle events. The CLI calls this directly.
func (uc *JobUsecase) Run(ctx context.Context, job *model.Job) error {
	log := uc.log.WithContext(ctx).WithFields(map[string]interface{}{"job_id": job.ID})

	steps, err := uc.builder.BuildAll(job.Steps)
	if err != nil {
		return uc.fail(ctx, job, err)
	}
	// Steps with per-run state (the dedupe tracker and its Redis sets in
	// particular) are cleared once the job finishes, whatever the outcome.
	defer uc.resetSteps(steps)

	now := time.Now().UTC()
	job.Status = model.JobStatusRunning
	job.StartedAt = &now
	if err := uc.store.UpdateJob(ctx, job); err != nil {
		return uc.fail(ctx, job, fmt.Errorf("failed to mark job running: %w", err))
	}
	uc.publish(ctx, model.JobEvent{
		JobID: job.ID, Type: model.EventJobStarted, Status: model.JobStatusRunning, Timestamp: now,
	})

	records, err := uc.loader.Load(ctx, job.Source)
	if err != nil {
		return uc.fail(ctx, job, fmt.Errorf("failed to load source %s %q: %w", job.Source.Kind, job.Source.Name, err))
	}
	log.Infof("loaded %d records from %s %q", len(records), job.Source.Kind, job.Source.Name)

	pipeline := NewPipeline(steps, uc.log).WithObserver(func(sr model.StepReport) {
		uc.publish(ctx, model.JobEvent{
			JobID: job.ID, Type: model.EventJobStep, Step: sr.Step,
			StepIn: sr.In, StepOut: sr.Out, Timestamp: time.Now().UTC(),
		})
	})

	cleaned, report, err := pipeline.Run(ctx, records)
	if err != nil {
		return uc.fail(ctx, job, err)
	}

	if job.Sink.Kind != model.SinkNone && job.Sink.Kind != "" {
		written, err := uc.sink.Write(ctx, job.Sink, cleaned)
		if err != nil {
			return uc.fail(ctx, job, fmt.Errorf("failed to write sink %s %q: %w", job.Sink.Kind, job.Sink.Name, err))
		}
		log.Infof("wrote %d cleaned records to %s %q", written, job.Sink.Kind, job.Sink.Name)
	}

	finished := time.Now().UTC()
	job.Status = model.JobStatusCompleted
	job.Report = report
	job.FinishedAt = &finished
	if err := uc.store.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	uc.publish(ctx, model.JobEvent{
		JobID: job.ID, Type: model.EventJobCompleted, Status: model.JobStatusCompleted,
		Report: report, Timestamp: finished,
	})
	log.Infof("job completed: %d -> %d records in %s", report.In, report.Out, report.Duration)
	return nil
}

// Get returns a job by ID.
func (uc *JobUsecase) Get(ctx context.Context, id string) (*model.Job, error) {
	if id == "" {
		return nil, errors.NewValidationError("job id must not be empty")
	}
	return uc.store.GetJob(ctx, id)
}

// List returns recent jobs, newest first.
func (uc *JobUsecase) List(ctx context.Context, limit int64) ([]*model.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.store.ListJobs(ctx, limit)
}

// resetSteps releases per-run step state. The run context may already be
// canceled, so resets use a fresh one.
func (uc *JobUsecase) resetSteps(steps []Step) {
	for _, step := range steps {
		r, ok := step.(interface {
			Reset(ctx context.Context) error
		})
		if !ok {
			continue
		}
		if err := r.Reset(context.Background()); err != nil {
			uc.log.Warnf("failed to reset step %s: %v", step.Name(), err)
		}
	}
}

func (uc *JobUsecase) fail(ctx context.Context, job *model.Job, cause error) error {
	finished := time.Now().UTC()
	job.Status = model.JobStatusFailed
	job.Error = cause.Error()
	job.FinishedAt = &finished

	if err := uc.store.UpdateJob(ctx, job); err != nil {
		uc.log.WithContext(ctx).Errorf("failed to persist failed job state: %v", err)
	}
	uc.publish(ctx, model.JobEvent{
		JobID: job.ID, Type: model.EventJobFailed, Status: model.JobStatusFailed,
		Error: cause.Error(), Timestamp: finished,
	})
	return cause
}

func (uc *JobUsecase) publish(ctx context.Context, event model.JobEvent) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewSourcedEvent(event.Type, "jobs", event))
}

func validateSubmitRequest(req SubmitJobRequest) error {
	ve := errors.NewValidationErrors()

	switch req.Source.Kind {
	case model.SourceCollection, model.SourceFile, model.SourceHub:
		if req.Source.Name == "" {
			ve.Add("source.name", "must not be empty", req.Source.Name)
		}
	default:
		ve.Add("source.kind", "must be collection, file or hub", req.Source.Kind)
	}

	switch req.Sink.Kind {
	case model.SinkCollection, model.SinkFile:
		if req.Sink.Name == "" {
			ve.Add("sink.name", "must not be empty", req.Sink.Name)
		}
	case model.SinkNone, "":
	default:
		ve.Add("sink.kind", "must be collection, file or none", req.Sink.Kind)
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}
