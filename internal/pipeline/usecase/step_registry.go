package usecase

import (
	"fmt"

	"dataprep/internal/dataset/domain/repository"
	"dataprep/internal/pipeline/domain/model"
	"dataprep/internal/shared/errors"
)

// Step names accepted in StepSpec and pipeline YAML files.
const (
	StepStandardizer  = "standardizer"
	StepQualityFilter = "quality_filter"
	StepDedupe        = "dedupe"
	StepMetadata      = "metadata"
	StepCELFilter     = "cel_filter"
)

// TrackerFactory builds a DedupeTracker for a dedupe step. The job usecase
// supplies a Redis-backed factory in service mode; nil falls back to memory.
type TrackerFactory func(selectedKey string) repository.DedupeTracker

// StepBuilder turns step specs into executable steps.
type StepBuilder struct {
	trackerFactory TrackerFactory
}

// NewStepBuilder creates a builder. trackerFactory may be nil.
func NewStepBuilder(trackerFactory TrackerFactory) *StepBuilder {
	return &StepBuilder{trackerFactory: trackerFactory}
}

// Build constructs a single step from its spec.
func (b *StepBuilder) Build(spec model.StepSpec) (Step, error) {
	switch spec.Step {
	case StepStandardizer:
		return NewStandardizer(
			WithTrimWhitespace(optBool(spec.Options, "trim_whitespace", true)),
			WithNormalizeWhitespace(optBool(spec.Options, "normalize_whitespace", true)),
			WithStandardizePunctuation(optBool(spec.Options, "standardize_punctuation", true)),
		), nil

	case StepQualityFilter:
		return NewQualityFilter(
			optInt(spec.Options, "min_length", 0),
			optInt(spec.Options, "max_length", 0),
		)

	case StepDedupe:
		key := optString(spec.Options, "selected_key", "text")
		var tracker repository.DedupeTracker
		if b.trackerFactory != nil {
			tracker = b.trackerFactory(key)
		}
		return NewDedupe(key, tracker)

	case StepMetadata:
		return NewMetadataEnricher(
			optBool(spec.Options, "add_word_count", true),
			optBool(spec.Options, "add_sentence_count", true),
		), nil

	case StepCELFilter:
		return NewCELFilter(optString(spec.Options, "expression", ""))

	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown cleaning step %q", spec.Step)).
			WithCause(errors.ErrInvalidStep)
	}
}

// BuildAll constructs every step in order.
func (b *StepBuilder) BuildAll(specs []model.StepSpec) ([]Step, error) {
	steps := make([]Step, 0, len(specs))
	for _, spec := range specs {
		step, err := b.Build(spec)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// DefaultStepSpecs is the stock cleaning chain: standardize, filter very
// short and very long texts, dedupe on text, annotate counts.
func DefaultStepSpecs() []model.StepSpec {
	return []model.StepSpec{
		{Step: StepStandardizer},
		{Step: StepQualityFilter, Options: map[string]interface{}{"min_length": 5, "max_length": 100}},
		{Step: StepDedupe, Options: map[string]interface{}{"selected_key": "text"}},
		{Step: StepMetadata},
	}
}

func optBool(options map[string]interface{}, key string, def bool) bool {
	if options == nil {
		return def
	}
	if v, ok := options[key].(bool); ok {
		return v
	}
	return def
}

func optInt(options map[string]interface{}, key string, def int) int {
	if options == nil {
		return def
	}
	switch v := options[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func optString(options map[string]interface{}, key, def string) string {
	if options == nil {
		return def
	}
	if v, ok := options[key].(string); ok {
		return v
	}
	return def
}
