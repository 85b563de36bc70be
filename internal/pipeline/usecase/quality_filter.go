package usecase

import (
	"context"
	"math"
	"strings"

	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/shared/errors"
)

// QualityFilter drops records whose text falls outside inclusive word-count
// bounds. Very short inputs can bias training; very long ones tend to be
// noisy or blow memory budgets.
type QualityFilter struct {
	minLength int
	maxLength int
}

// NewQualityFilter creates a filter keeping records with minLength <= words <= maxLength.
// A maxLength <= 0 means unbounded.
func NewQualityFilter(minLength, maxLength int) (*QualityFilter, error) {
	if maxLength <= 0 {
		maxLength = math.MaxInt
	}
	if minLength < 0 {
		return nil, errors.NewValidationError("quality filter min_length must not be negative")
	}
	if minLength > maxLength {
		return nil, errors.NewValidationError("quality filter min_length must not exceed max_length")
	}
	return &QualityFilter{minLength: minLength, maxLength: maxLength}, nil
}

// Name implements Step.
func (f *QualityFilter) Name() string { return "quality_filter" }

// Process implements Step. Empty text counts as zero words.
func (f *QualityFilter) Process(ctx context.Context, record *model.Record) (*model.Record, error) {
	words := len(strings.Fields(record.Text()))
	if words < f.minLength || words > f.maxLength {
		return nil, nil
	}
	return record, nil
}

// Config implements Step.
func (f *QualityFilter) Config() map[string]interface{} {
	cfg := map[string]interface{}{"min_length": f.minLength}
	if f.maxLength == math.MaxInt {
		cfg["max_length"] = "unbounded"
	} else {
		cfg["max_length"] = f.maxLength
	}
	return cfg
}
