package job

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EnvelopeKind identifies the variant carried by a push message.
type EnvelopeKind string

const (
	KindPendingJobs   EnvelopeKind = "PendingJobs"
	KindCompletedJobs EnvelopeKind = "CompletedJobs"
	KindFinished      EnvelopeKind = "Finished"
	KindFailed        EnvelopeKind = "Failed"
)

// Sentinel errors for envelope validation.
var (
	// ErrNotTagged is returned when a frame does not carry exactly one tag.
	ErrNotTagged = errors.New("envelope must carry exactly one tag")

	// ErrUnknownTag is returned for tags this client does not recognize.
	ErrUnknownTag = errors.New("unknown envelope tag")
)

// Envelope is one decoded push message. Exactly one variant is populated:
// Jobs for the list kinds, Job (plus Reason for failures) for the terminal
// kinds.
type Envelope struct {
	Kind   EnvelopeKind
	Jobs   []Job
	Job    Job
	Reason string
}

// failedRef accepts both the server's nested form {"job": {...}, "reason": s}
// and a flat job object carrying a "reason" field.
type failedRef struct {
	Job    Job
	Reason string
}

func (f *failedRef) UnmarshalJSON(data []byte) error {
	var nested struct {
		Job    *Job   `json:"job"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	if nested.Job != nil {
		f.Job = *nested.Job
		f.Reason = nested.Reason
		return nil
	}

	var flat Job
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	f.Job = flat
	f.Reason = nested.Reason
	return nil
}

// ParseEnvelope decodes and validates one push frame. Frames with zero or
// multiple tags, or an unrecognized tag, are rejected so the caller can drop
// them without touching session state.
func ParseEnvelope(data []byte) (Envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope: %w", err)
	}
	if len(raw) != 1 {
		return Envelope{}, fmt.Errorf("%w, got %d", ErrNotTagged, len(raw))
	}

	for tag, body := range raw {
		switch EnvelopeKind(tag) {
		case KindPendingJobs, KindCompletedJobs:
			var jobs []Job
			if err := json.Unmarshal(body, &jobs); err != nil {
				return Envelope{}, fmt.Errorf("parse %s: %w", tag, err)
			}
			return Envelope{Kind: EnvelopeKind(tag), Jobs: jobs}, nil
		case KindFinished:
			var j Job
			if err := json.Unmarshal(body, &j); err != nil {
				return Envelope{}, fmt.Errorf("parse %s: %w", tag, err)
			}
			return Envelope{Kind: KindFinished, Job: j}, nil
		case KindFailed:
			var ref failedRef
			if err := json.Unmarshal(body, &ref); err != nil {
				return Envelope{}, fmt.Errorf("parse %s: %w", tag, err)
			}
			return Envelope{Kind: KindFailed, Job: ref.Job, Reason: ref.Reason}, nil
		default:
			return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
	}
	return Envelope{}, ErrNotTagged // unreachable
}
