package usecase

import (
	"context"
	"fmt"

	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/shared/errors"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// CELFilter keeps records for which a CEL expression evaluates to true.
// Expressions see the record's text, output, derived counts and metadata:
//
//	word_count >= 5 && !(metadata.category == "spam")
//
// The expression is compiled once at construction; evaluation failures on a
// record (for example a missing metadata key) drop the record rather than
// aborting the run.
type CELFilter struct {
	expression string
	program    cel.Program
}

// NewCELFilter compiles the expression and returns a filter step.
func NewCELFilter(expression string) (*CELFilter, error) {
	if expression == "" {
		return nil, errors.NewValidationError("cel filter expression must not be empty").
			WithCause(errors.ErrInvalidExpression)
	}

	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("text", decls.String),
			decls.NewVar("output", decls.String),
			decls.NewVar("word_count", decls.Int),
			decls.NewVar("sentence_count", decls.Int),
			decls.NewVar("metadata", decls.Dyn),
			decls.NewVar("fields", decls.Dyn),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.NewValidationError(
			fmt.Sprintf("cel filter expression %q does not compile", expression)).
			WithCause(issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return &CELFilter{expression: expression, program: program}, nil
}

// Name implements Step.
func (f *CELFilter) Name() string { return "cel_filter" }

// Process implements Step.
func (f *CELFilter) Process(ctx context.Context, record *model.Record) (*model.Record, error) {
	metadata := record.Metadata()
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	out, _, err := f.program.ContextEval(ctx, map[string]interface{}{
		"text":           record.Text(),
		"output":         record.Output(),
		"word_count":     record.IntField(model.FieldWordCount, 0),
		"sentence_count": record.IntField(model.FieldSentenceCount, 0),
		"metadata":       metadata,
		"fields":         record.Fields,
	})
	if err != nil {
		// Records the expression cannot evaluate are treated as rejected.
		return nil, nil
	}

	if keep, ok := out.Value().(bool); ok && keep {
		return record, nil
	}
	return nil, nil
}

// Config implements Step.
func (f *CELFilter) Config() map[string]interface{} {
	return map[string]interface{}{"expression": f.expression}
}
