package usecase

import (
	"context"
	"testing"

	"dataprep/internal/dataset/domain/repository"
	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepBuilderBuildsEveryStep(t *testing.T) {
	builder := NewStepBuilder(nil)

	tests := []struct {
		spec model.StepSpec
		name string
	}{
		{spec: model.StepSpec{Step: StepStandardizer}, name: "standardizer"},
		{spec: model.StepSpec{Step: StepQualityFilter, Options: map[string]interface{}{"min_length": 2}}, name: "quality_filter"},
		{spec: model.StepSpec{Step: StepDedupe}, name: "dedupe"},
		{spec: model.StepSpec{Step: StepMetadata}, name: "metadata"},
		{spec: model.StepSpec{Step: StepCELFilter, Options: map[string]interface{}{"expression": "word_count > 0"}}, name: "cel_filter"},
	}

	for _, tt := range tests {
		t.Run(tt.spec.Step, func(t *testing.T) {
			step, err := builder.Build(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.name, step.Name())
		})
	}
}

func TestStepBuilderUnknownStep(t *testing.T) {
	_, err := NewStepBuilder(nil).Build(model.StepSpec{Step: "shuffle"})
	assert.True(t, errors.IsValidation(err))
}

func TestStepBuilderOptionCoercion(t *testing.T) {
	builder := NewStepBuilder(nil)

	// JSON bodies decode numbers as float64; YAML gives int.
	step, err := builder.Build(model.StepSpec{
		Step:    StepQualityFilter,
		Options: map[string]interface{}{"min_length": float64(3), "max_length": 10},
	})
	require.NoError(t, err)

	cfg := step.Config()
	assert.Equal(t, 3, cfg["min_length"])
	assert.Equal(t, 10, cfg["max_length"])
}

func TestStepBuilderUsesTrackerFactory(t *testing.T) {
	var gotKey string
	factory := func(selectedKey string) repository.DedupeTracker {
		gotKey = selectedKey
		return NewMemoryDedupeTracker()
	}

	_, err := NewStepBuilder(factory).Build(model.StepSpec{
		Step:    StepDedupe,
		Options: map[string]interface{}{"selected_key": "output"},
	})
	require.NoError(t, err)
	assert.Equal(t, "output", gotKey)
}

func TestStepBuilderBuildAllFailsFast(t *testing.T) {
	specs := []model.StepSpec{
		{Step: StepStandardizer},
		{Step: StepCELFilter}, // missing expression
	}
	_, err := NewStepBuilder(nil).BuildAll(specs)
	assert.Error(t, err)
}

func TestDefaultStepSpecs(t *testing.T) {
	specs := DefaultStepSpecs()
	require.Len(t, specs, 4)
	assert.Equal(t, StepStandardizer, specs[0].Step)
	assert.Equal(t, StepQualityFilter, specs[1].Step)
	assert.Equal(t, StepDedupe, specs[2].Step)
	assert.Equal(t, StepMetadata, specs[3].Step)

	steps, err := NewStepBuilder(nil).BuildAll(specs)
	require.NoError(t, err)
	assert.Len(t, steps, 4)
}

func TestBuiltStepsExposeOnlyStaticConfig(t *testing.T) {
	steps, err := NewStepBuilder(nil).BuildAll(DefaultStepSpecs())
	require.NoError(t, err)

	record := textRecords("a perfectly ordinary sentence with enough words here.")[0]
	for _, step := range steps {
		before := step.Config()
		_, err := step.Process(context.Background(), record)
		require.NoError(t, err)
		assert.Equal(t, before, step.Config(), "step %s config must not change after Process", step.Name())
	}
}
