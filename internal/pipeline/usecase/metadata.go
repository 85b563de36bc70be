package usecase

import (
	"context"
	"strings"

	"dataprep/internal/dataset/domain/model"
)

// MetadataEnricher annotates records with derived word and sentence counts.
// It carries no per-record state so concurrent Process calls are safe.
type MetadataEnricher struct {
	addWordCount     bool
	addSentenceCount bool
}

// NewMetadataEnricher creates an enricher with the requested annotations.
func NewMetadataEnricher(addWordCount, addSentenceCount bool) *MetadataEnricher {
	return &MetadataEnricher{addWordCount: addWordCount, addSentenceCount: addSentenceCount}
}

// Name implements Step.
func (m *MetadataEnricher) Name() string { return "metadata" }

// Process implements Step. It never filters records.
func (m *MetadataEnricher) Process(ctx context.Context, record *model.Record) (*model.Record, error) {
	result := record.Clone()

	if m.addWordCount {
		result = result.WithField(model.FieldWordCount, wordCount(record.Text()))
	}
	if m.addSentenceCount {
		result = result.WithField(model.FieldSentenceCount, sentenceCount(record.Text()))
	}
	return result, nil
}

// Config implements Step. It exposes only the static flags; derived counts
// belong to records, never to the step.
func (m *MetadataEnricher) Config() map[string]interface{} {
	return map[string]interface{}{
		"add_word_count":     m.addWordCount,
		"add_sentence_count": m.addSentenceCount,
	}
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// sentenceCount counts terminal punctuation marks, with a floor of one
// sentence for nonempty text.
func sentenceCount(text string) int {
	if text == "" {
		return 0
	}
	count := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}
