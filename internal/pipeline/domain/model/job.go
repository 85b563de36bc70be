package model

import "time"

// JobStatus is the lifecycle state of a preprocessing job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Source kinds a job can read records from.
const (
	SourceCollection = "collection"
	SourceFile       = "file"
	SourceHub        = "hub"
)

// Sink kinds a job can write cleaned records to.
const (
	SinkCollection = "collection"
	SinkFile       = "file"
	SinkNone       = "none"
)

// SourceSpec describes where a job's input records come from.
type SourceSpec struct {
	Kind string `bson:"kind" json:"kind"`
	// Name is the collection name, file path or hub dataset name.
	Name string `bson:"name" json:"name"`
	// Format applies to file sources: csv, json or jsonl.
	Format string `bson:"format,omitempty" json:"format,omitempty"`
}

// SinkSpec describes where a job's cleaned records go.
type SinkSpec struct {
	Kind   string `bson:"kind" json:"kind"`
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
	Format string `bson:"format,omitempty" json:"format,omitempty"`
}

// StepSpec names a cleaning step and its options, as submitted by a client
// or loaded from a pipeline YAML file.
type StepSpec struct {
	Step    string                 `bson:"step" json:"step" yaml:"step"`
	Options map[string]interface{} `bson:"options,omitempty" json:"options,omitempty" yaml:"options,omitempty"`
}

// StepReport captures the record flow through one cleaning step.
type StepReport struct {
	Step    string `bson:"step" json:"step"`
	In      int    `bson:"in" json:"in"`
	Out     int    `bson:"out" json:"out"`
	Dropped int    `bson:"dropped" json:"dropped"`
}

// Report summarizes a pipeline run.
type Report struct {
	In       int           `bson:"in" json:"in"`
	Out      int           `bson:"out" json:"out"`
	Steps    []StepReport  `bson:"steps" json:"steps"`
	Duration time.Duration `bson:"duration_ns" json:"duration_ns"`
}

// Job ties a dataset source to a pipeline and an output sink.
type Job struct {
	ID         string     `bson:"_id" json:"id"`
	Source     SourceSpec `bson:"source" json:"source"`
	Sink       SinkSpec   `bson:"sink" json:"sink"`
	Steps      []StepSpec `bson:"steps" json:"steps"`
	Status     JobStatus  `bson:"status" json:"status"`
	Report     *Report    `bson:"report,omitempty" json:"report,omitempty"`
	Error      string     `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	StartedAt  *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	FinishedAt *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
