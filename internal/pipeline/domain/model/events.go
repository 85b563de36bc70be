package model

import "time"

// Job lifecycle event types published on the event bus and streamed to
// realtime subscribers.
const (
	EventJobStarted   = "job.started"
	EventJobStep      = "job.step"
	EventJobCompleted = "job.completed"
	EventJobFailed    = "job.failed"
)

// JobEvent is the payload for job lifecycle events.
type JobEvent struct {
	JobID     string    `json:"job_id"`
	Type      string    `json:"type"`
	Step      string    `json:"step,omitempty"`
	StepIn    int       `json:"step_in,omitempty"`
	StepOut   int       `json:"step_out,omitempty"`
	Report    *Report   `json:"report,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Status    JobStatus `json:"status,omitempty"`
}
