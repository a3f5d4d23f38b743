package job

import (
	"encoding/json"
	"fmt"
)

// StatusKind tracks a job's lifecycle state.
type StatusKind string

const (
	StatusPending    StatusKind = "Pending"
	StatusInProgress StatusKind = "InProgress"
	StatusFinished   StatusKind = "Finished"
	StatusFailed     StatusKind = "Failed"
)

// Status is the job state plus the failure reason for failed jobs.
//
// On the wire this is an externally tagged enum: a bare string for the
// simple states ("InProgress") and an object for the failed state
// ({"Failed": "reason"}).
type Status struct {
	Kind   StatusKind
	Reason string // set only when Kind == StatusFailed
}

// Terminal returns true once the job has finished or failed.
func (s Status) Terminal() bool {
	return s.Kind == StatusFinished || s.Kind == StatusFailed
}

func (s Status) String() string {
	if s.Kind == StatusFailed && s.Reason != "" {
		return fmt.Sprintf("%s (%s)", s.Kind, s.Reason)
	}
	return string(s.Kind)
}

// UnmarshalJSON accepts either a bare state string or the tagged failure
// object.
func (s *Status) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		switch StatusKind(plain) {
		case StatusPending, StatusInProgress, StatusFinished, StatusFailed:
			s.Kind = StatusKind(plain)
			s.Reason = ""
			return nil
		default:
			return fmt.Errorf("unknown job status %q", plain)
		}
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("parse job status: %w", err)
	}
	reason, ok := tagged[string(StatusFailed)]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("unknown job status object %s", data)
	}
	s.Kind = StatusFailed
	s.Reason = reason
	return nil
}

// MarshalJSON emits the same externally tagged shape the server produces.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.Kind == StatusFailed {
		return json.Marshal(map[string]string{string(StatusFailed): s.Reason})
	}
	return json.Marshal(string(s.Kind))
}
