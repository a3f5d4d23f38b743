// Package events carries session events between the reconciler and its
// consumers (notification dispatch, UI rendering).
package events

import (
	"time"

	"github.com/vmunix/yodel/internal/job"
)

// Event type constants.
const (
	EventConnState         = "conn.state"
	EventPendingReplaced   = "jobs.pending.replaced"
	EventCompletedReplaced = "jobs.completed.replaced"
	EventJobFinished       = "job.finished"
	EventJobFailed         = "job.failed"
)

// Event is the base interface all session events implement.
type Event interface {
	EventType() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{Type: eventType, Timestamp: time.Now()}
}

// ConnStateChanged is emitted when the push channel flips between connected
// and disconnected. It is informational only and never produces an alert.
type ConnStateChanged struct {
	BaseEvent
	State string `json:"state"`
}

// PendingReplaced is emitted after the pending list has been replaced
// wholesale.
type PendingReplaced struct {
	BaseEvent
	Jobs []job.Job `json:"jobs"`
}

// CompletedReplaced is emitted after the completed list has been replaced
// wholesale.
type CompletedReplaced struct {
	BaseEvent
	Jobs []job.Job `json:"jobs"`
}

// JobFinished is a terminal event: the referenced job downloaded
// successfully. JobID is the stable client-issued identifier.
type JobFinished struct {
	BaseEvent
	JobID string  `json:"job_id"`
	Job   job.Job `json:"job"`
}

// JobFailed is a terminal event carrying the server-reported reason.
type JobFailed struct {
	BaseEvent
	JobID  string  `json:"job_id"`
	Job    job.Job `json:"job"`
	Reason string  `json:"reason"`
}
