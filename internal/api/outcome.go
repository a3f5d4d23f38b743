package api

// OutcomeKind classifies the server's answer to a job submission.
type OutcomeKind string

const (
	// OutcomeAccepted means the server queued the job (2xx).
	OutcomeAccepted OutcomeKind = "accepted"
	// OutcomeConflict means an identical job was already requested (409).
	OutcomeConflict OutcomeKind = "conflict"
	// OutcomeInvalid means the request was rejected as unprocessable
	// (422, or the server's 400 for an unknown location).
	OutcomeInvalid OutcomeKind = "invalid"
	// OutcomeRejected covers every other non-success response.
	OutcomeRejected OutcomeKind = "rejected"
)

// Outcome is the classified result of a submission. Detail carries the
// server-supplied message for non-accepted outcomes.
type Outcome struct {
	Kind   OutcomeKind
	Detail string
}

// Accepted reports whether the submission was taken by the server.
func (o Outcome) Accepted() bool {
	return o.Kind == OutcomeAccepted
}
