package usecase

import (
	"context"
	"regexp"
	"strings"

	"dataprep/internal/dataset/domain/model"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// smart quotes replaced with their ASCII equivalents
var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
)

// Standardizer normalizes record text: lowercasing, whitespace handling and
// punctuation cleanup. It also lifts top-level source/date fields into the
// metadata sub-document so records share one shape downstream.
type Standardizer struct {
	trimWhitespace         bool
	normalizeWhitespace    bool
	standardizePunctuation bool
}

// StandardizerOption configures a Standardizer.
type StandardizerOption func(*Standardizer)

// WithTrimWhitespace toggles leading/trailing whitespace removal.
func WithTrimWhitespace(on bool) StandardizerOption {
	return func(s *Standardizer) { s.trimWhitespace = on }
}

// WithNormalizeWhitespace toggles collapsing of internal whitespace runs.
func WithNormalizeWhitespace(on bool) StandardizerOption {
	return func(s *Standardizer) { s.normalizeWhitespace = on }
}

// WithStandardizePunctuation toggles quote and punctuation cleanup.
func WithStandardizePunctuation(on bool) StandardizerOption {
	return func(s *Standardizer) { s.standardizePunctuation = on }
}

// NewStandardizer creates a Standardizer with all normalizations enabled
// unless options say otherwise.
func NewStandardizer(opts ...StandardizerOption) *Standardizer {
	s := &Standardizer{
		trimWhitespace:         true,
		normalizeWhitespace:    true,
		standardizePunctuation: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Step.
func (s *Standardizer) Name() string { return "standardizer" }

// Process implements Step. It never filters records.
func (s *Standardizer) Process(ctx context.Context, record *model.Record) (*model.Record, error) {
	text := strings.ToLower(record.Text())

	result := record.Clone()

	// Lift source/date into the metadata sub-document.
	metadata := map[string]interface{}{}
	for k, v := range result.Metadata() {
		metadata[k] = v
	}
	for _, field := range []string{model.FieldSource, model.FieldDate} {
		if val, ok := result.Field(field); ok {
			metadata[field] = val
			result = result.WithoutField(field)
		}
	}

	if s.trimWhitespace {
		text = strings.TrimSpace(text)
	}

	if s.normalizeWhitespace {
		text = whitespaceRun.ReplaceAllString(text, " ")
	}

	if s.standardizePunctuation {
		text = quoteReplacer.Replace(text)

		// Ensure a space after terminal punctuation, then renormalize.
		for _, punct := range []string{".", "!", "?"} {
			text = strings.ReplaceAll(text, punct, punct+" ")
		}
		text = strings.Join(strings.Fields(text), " ")

		// Collapse runs of repeated terminal punctuation.
		prev := ""
		for prev != text {
			prev = text
			for _, punct := range []string{"..", "!!", "??"} {
				text = strings.ReplaceAll(text, punct, punct[:1])
			}
		}
	}

	result = result.WithField(model.FieldText, text)
	if len(metadata) > 0 {
		result = result.WithField(model.FieldMetadata, metadata)
	}
	return result, nil
}

// Config implements Step.
func (s *Standardizer) Config() map[string]interface{} {
	return map[string]interface{}{
		"trim_whitespace":         s.trimWhitespace,
		"normalize_whitespace":    s.normalizeWhitespace,
		"standardize_punctuation": s.standardizePunctuation,
	}
}
