package file

import (
	"fmt"
	"sort"
	"strings"

	"dataprep/internal/dataset/domain/model"
)

// commonInputFields are column names treated as input text during
// auto-detection, checked case-insensitively.
var commonInputFields = map[string]bool{
	"text":     true,
	"input":    true,
	"prompt":   true,
	"user":     true,
	"system":   true,
	"messages": true,
}

// Reader maps raw dataset columns onto the cleaning format: input columns
// merge into "text", output columns into "output", everything else is kept
// under "metadata".
type Reader struct {
	columns         []string
	inputFields     []string
	outputFields    []string
	extraFields     []string
	keepExtraFields bool
}

// NewReader creates a reader over the columns of the given records. Record
// fields are maps, so the source order is gone by the time records arrive
// here; columns are sorted by name to keep the positional fallbacks
// deterministic. Use NewReaderWithColumns when the source order is known.
func NewReader(records []*model.Record, keepExtraFields bool) *Reader {
	var columns []string
	seen := map[string]bool{}
	for _, record := range records {
		for col := range record.Fields {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return &Reader{columns: columns, keepExtraFields: keepExtraFields}
}

// NewReaderWithColumns creates a reader using the given source column order,
// typically a CSV header. Columns present in the records but missing from
// the list are appended in sorted order.
func NewReaderWithColumns(records []*model.Record, columns []string, keepExtraFields bool) *Reader {
	seen := map[string]bool{}
	ordered := make([]string, 0, len(columns))
	for _, col := range columns {
		if !seen[col] {
			seen[col] = true
			ordered = append(ordered, col)
		}
	}

	var extra []string
	for _, record := range records {
		for col := range record.Fields {
			if !seen[col] {
				seen[col] = true
				extra = append(extra, col)
			}
		}
	}
	sort.Strings(extra)

	return &Reader{columns: append(ordered, extra...), keepExtraFields: keepExtraFields}
}

// AutoDetectFields guesses input/output fields by name. Fallbacks: the
// first column becomes the input, the second the output.
func (r *Reader) AutoDetectFields() {
	r.inputFields = nil
	r.outputFields = nil
	r.extraFields = nil

	for _, col := range r.columns {
		if commonInputFields[strings.ToLower(col)] {
			r.inputFields = append(r.inputFields, col)
		}
	}
	if len(r.inputFields) == 0 && len(r.columns) > 0 {
		r.inputFields = []string{r.columns[0]}
	}
	if len(r.outputFields) == 0 && len(r.columns) > 1 {
		for _, col := range r.columns {
			if !contains(r.inputFields, col) {
				r.outputFields = []string{col}
				break
			}
		}
	}
	r.markExtras()
}

// SetFields overrides detected field mappings; nil arguments keep the
// current value.
func (r *Reader) SetFields(inputFields, outputFields, extraFields []string) {
	if inputFields != nil {
		r.inputFields = inputFields
	}
	if outputFields != nil {
		r.outputFields = outputFields
	}
	if extraFields != nil {
		r.extraFields = extraFields
	} else {
		r.markExtras()
	}
}

// InputFields returns the current input column mapping.
func (r *Reader) InputFields() []string { return r.inputFields }

// OutputFields returns the current output column mapping.
func (r *Reader) OutputFields() []string { return r.outputFields }

// ExtraFields returns the passthrough columns kept under metadata.
func (r *Reader) ExtraFields() []string { return r.extraFields }

// ToCleaningFormat converts records into the shape the cleaning steps
// expect: input columns joined into "text", output columns into "output",
// extras under "metadata".
func (r *Reader) ToCleaningFormat(records []*model.Record) []*model.Record {
	out := make([]*model.Record, 0, len(records))
	for _, record := range records {
		fields := map[string]interface{}{
			model.FieldText: r.joinColumns(record, r.inputFields),
		}
		if len(r.outputFields) > 0 {
			fields[model.FieldOutput] = r.joinColumns(record, r.outputFields)
		}
		if r.keepExtraFields && len(r.extraFields) > 0 {
			metadata := map[string]interface{}{}
			for _, col := range r.extraFields {
				if val, ok := record.Field(col); ok {
					metadata[col] = val
				}
			}
			if len(metadata) > 0 {
				fields[model.FieldMetadata] = metadata
			}
		}
		out = append(out, model.FromMap(fields))
	}
	return out
}

func (r *Reader) joinColumns(record *model.Record, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		if val, ok := record.Field(col); ok {
			parts = append(parts, fmt.Sprintf("%v", val))
		}
	}
	return strings.Join(parts, " ")
}

func (r *Reader) markExtras() {
	if !r.keepExtraFields {
		r.extraFields = nil
		return
	}
	r.extraFields = nil
	for _, col := range r.columns {
		if !contains(r.inputFields, col) && !contains(r.outputFields, col) {
			r.extraFields = append(r.extraFields, col)
		}
	}
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
