package usecase

import (
	"context"
	"fmt"
	"time"

	dsmodel "dataprep/internal/dataset/domain/model"
	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/shared/logger"
)

// StepObserver is notified after each step finishes with that step's report.
// The job usecase uses it to publish progress events.
type StepObserver func(report model.StepReport)

// Pipeline runs records through an ordered chain of cleaning steps.
type Pipeline struct {
	steps    []Step
	log      logger.Logger
	observer StepObserver
}

// NewPipeline creates a pipeline over the given steps.
func NewPipeline(steps []Step, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Pipeline{steps: steps, log: log.WithComponent("pipeline")}
}

// WithObserver sets the per-step observer and returns the pipeline.
func (p *Pipeline) WithObserver(observer StepObserver) *Pipeline {
	p.observer = observer
	return p
}

// Steps returns the configured steps in order.
func (p *Pipeline) Steps() []Step { return p.steps }

// Run processes the batch through every step in order. Records a step
// returns nil for drop out of the batch. A step error aborts the run with
// the step name attached.
func (p *Pipeline) Run(ctx context.Context, records []*dsmodel.Record) ([]*dsmodel.Record, *model.Report, error) {
	start := time.Now()
	report := &model.Report{In: len(records), Steps: make([]model.StepReport, 0, len(p.steps))}

	current := records
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		before := len(current)
		next := make([]*dsmodel.Record, 0, before)
		for _, record := range current {
			result, err := step.Process(ctx, record)
			if err != nil {
				return nil, nil, fmt.Errorf("step %s: %w", step.Name(), err)
			}
			if result != nil {
				next = append(next, result)
			}
		}
		current = next

		stepReport := model.StepReport{
			Step:    step.Name(),
			In:      before,
			Out:     len(current),
			Dropped: before - len(current),
		}
		report.Steps = append(report.Steps, stepReport)
		p.log.WithContext(ctx).Infof("%s: %d -> %d records", step.Name(), before, len(current))

		if p.observer != nil {
			p.observer(stepReport)
		}
	}

	report.Out = len(current)
	report.Duration = time.Since(start)
	return current, report, nil
}
