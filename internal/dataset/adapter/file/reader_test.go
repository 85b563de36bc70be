package file

import (
	"testing"

	"dataprep/internal/dataset/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordsFromMaps(maps ...map[string]interface{}) []*model.Record {
	records := make([]*model.Record, 0, len(maps))
	for _, m := range maps {
		records = append(records, model.FromMap(m))
	}
	return records
}

func TestAutoDetectFieldsByName(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"prompt":   "what is go?",
		"response": "a programming language",
	})

	reader := NewReader(records, true)
	reader.AutoDetectFields()

	assert.Equal(t, []string{"prompt"}, reader.InputFields())
	assert.Equal(t, []string{"response"}, reader.OutputFields())
}

func TestAutoDetectFieldsCaseInsensitive(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{"Text": "hello"})

	reader := NewReader(records, false)
	reader.AutoDetectFields()

	assert.Equal(t, []string{"Text"}, reader.InputFields())
}

func TestAutoDetectFallsBackToFirstColumn(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{"sentence": "only column"})

	reader := NewReader(records, false)
	reader.AutoDetectFields()

	assert.Equal(t, []string{"sentence"}, reader.InputFields())
	assert.Empty(t, reader.OutputFields(), "single column means no output field")
}

func TestAutoDetectFallbackIsDeterministic(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"delta": "d", "alpha": "a", "charlie": "c", "bravo": "b",
	})

	for i := 0; i < 50; i++ {
		reader := NewReader(records, false)
		reader.AutoDetectFields()
		assert.Equal(t, []string{"alpha"}, reader.InputFields())
		assert.Equal(t, []string{"bravo"}, reader.OutputFields())
	}
}

func TestNewReaderWithColumnsKeepsSourceOrder(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"zeta": "input value", "alpha": "output value",
	})

	reader := NewReaderWithColumns(records, []string{"zeta", "alpha"}, false)
	reader.AutoDetectFields()

	assert.Equal(t, []string{"zeta"}, reader.InputFields())
	assert.Equal(t, []string{"alpha"}, reader.OutputFields())
}

func TestNewReaderWithColumnsAppendsUnlistedColumns(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"zeta": "z", "alpha": "a", "extra_b": "b", "extra_a": "a",
	})

	reader := NewReaderWithColumns(records, []string{"zeta", "alpha"}, true)
	reader.SetFields([]string{"zeta"}, []string{"alpha"}, nil)

	assert.Equal(t, []string{"extra_a", "extra_b"}, reader.ExtraFields())
}

func TestSetFieldsOverride(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"question": "q", "answer": "a", "language": "en",
	})

	reader := NewReader(records, true)
	reader.SetFields([]string{"question"}, []string{"answer"}, nil)

	assert.Equal(t, []string{"question"}, reader.InputFields())
	assert.Equal(t, []string{"answer"}, reader.OutputFields())
	assert.Equal(t, []string{"language"}, reader.ExtraFields())
}

func TestToCleaningFormat(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"prompt":   "what is go?",
		"response": "a programming language",
		"language": "en",
	})

	reader := NewReader(records, true)
	reader.SetFields([]string{"prompt"}, []string{"response"}, nil)

	cleaned := reader.ToCleaningFormat(records)
	require.Len(t, cleaned, 1)

	assert.Equal(t, "what is go?", cleaned[0].Text())
	assert.Equal(t, "a programming language", cleaned[0].Output())

	metadata := cleaned[0].Metadata()
	require.NotNil(t, metadata)
	assert.Equal(t, "en", metadata["language"])
}

func TestToCleaningFormatJoinsMultipleInputColumns(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"system": "you are helpful",
		"user":   "hello there",
	})

	reader := NewReader(records, false)
	reader.SetFields([]string{"system", "user"}, []string{}, nil)

	cleaned := reader.ToCleaningFormat(records)
	require.Len(t, cleaned, 1)
	assert.Equal(t, "you are helpful hello there", cleaned[0].Text())
}

func TestToCleaningFormatDropsExtrasWhenDisabled(t *testing.T) {
	records := recordsFromMaps(map[string]interface{}{
		"text":     "keep me",
		"internal": "drop me",
	})

	reader := NewReader(records, false)
	reader.AutoDetectFields()

	cleaned := reader.ToCleaningFormat(records)
	require.Len(t, cleaned, 1)
	assert.Nil(t, cleaned[0].Metadata())
}
