package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known record field names.
const (
	FieldText          = "text"
	FieldOutput        = "output"
	FieldMetadata      = "metadata"
	FieldWordCount     = "word_count"
	FieldSentenceCount = "sentence_count"
	FieldSource        = "source"
	FieldDate          = "date"
)

// Record is a single dataset entry. Records are schemaless documents with a
// primary "text" field; everything else (outputs, metadata, derived counts,
// passthrough columns) lives in Fields alongside it.
type Record struct {
	ID     primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Fields map[string]interface{} `bson:",inline" json:"fields"`
}

// NewRecord creates a record with the given text content.
func NewRecord(text string) *Record {
	return &Record{Fields: map[string]interface{}{FieldText: text}}
}

// FromMap creates a record backed by a copy of the given field map.
func FromMap(fields map[string]interface{}) *Record {
	r := &Record{Fields: make(map[string]interface{}, len(fields))}
	for k, v := range fields {
		r.Fields[k] = v
	}
	return r
}

// Text returns the record's text content, or the empty string when unset.
func (r *Record) Text() string {
	if r == nil || r.Fields == nil {
		return ""
	}
	if text, ok := r.Fields[FieldText].(string); ok {
		return text
	}
	return ""
}

// Output returns the record's output content, or the empty string when unset.
func (r *Record) Output() string {
	if r == nil || r.Fields == nil {
		return ""
	}
	if out, ok := r.Fields[FieldOutput].(string); ok {
		return out
	}
	return ""
}

// Field returns an arbitrary field value and whether it is present.
func (r *Record) Field(key string) (interface{}, bool) {
	if r == nil || r.Fields == nil {
		return nil, false
	}
	val, ok := r.Fields[key]
	return val, ok
}

// StringField returns a field coerced to string, or the default when missing.
func (r *Record) StringField(key, def string) string {
	val, ok := r.Field(key)
	if !ok {
		return def
	}
	if s, ok := val.(string); ok {
		return s
	}
	return def
}

// IntField returns a field coerced to int, or the default when missing or of
// another type. BSON decodes small numbers as int32/int64, so both are accepted.
func (r *Record) IntField(key string, def int) int {
	val, ok := r.Field(key)
	if !ok {
		return def
	}
	switch n := val.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// Metadata returns the metadata sub-document, or nil when unset.
func (r *Record) Metadata() map[string]interface{} {
	val, ok := r.Field(FieldMetadata)
	if !ok {
		return nil
	}
	if m, ok := val.(map[string]interface{}); ok {
		return m
	}
	return nil
}

// Clone returns a deep-enough copy of the record: the field map and the
// metadata sub-document are copied, values are shared.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := &Record{ID: r.ID, Fields: make(map[string]interface{}, len(r.Fields))}
	for k, v := range r.Fields {
		clone.Fields[k] = v
	}
	if meta := r.Metadata(); meta != nil {
		metaCopy := make(map[string]interface{}, len(meta))
		for k, v := range meta {
			metaCopy[k] = v
		}
		clone.Fields[FieldMetadata] = metaCopy
	}
	return clone
}

// WithField returns a copy of the record with the field set. Cleaning steps
// use this so the caller's record is never mutated.
func (r *Record) WithField(key string, value interface{}) *Record {
	clone := r.Clone()
	if clone.Fields == nil {
		clone.Fields = make(map[string]interface{}, 1)
	}
	clone.Fields[key] = value
	return clone
}

// WithoutField returns a copy of the record with the field removed.
func (r *Record) WithoutField(key string) *Record {
	clone := r.Clone()
	delete(clone.Fields, key)
	return clone
}

// ToMap returns the record's fields as a plain map, including the object ID
// under "_id" when set.
func (r *Record) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	if !r.ID.IsZero() {
		out["_id"] = r.ID
	}
	return out
}
