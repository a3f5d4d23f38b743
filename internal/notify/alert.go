// Package notify turns session events into user-visible alerts, at most one
// per distinct event.
package notify

import (
	"fmt"
	"time"

	"github.com/vmunix/yodel/internal/api"
)

// Severity classifies an alert.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SuccessDuration is how long success alerts stay up before auto-dismissal.
// Warnings and errors are sticky (Duration zero) until dismissed.
const SuccessDuration = 5 * time.Second

// Alert is one user-visible notification. Duration zero means the alert
// persists until the user dismisses it.
type Alert struct {
	Severity    Severity
	Title       string
	Description string
	Duration    time.Duration
}

// Sticky reports whether the alert stays up until dismissed.
func (a Alert) Sticky() bool {
	return a.Duration == 0
}

// Success builds an auto-dismissing success alert.
func Success(title, description string) Alert {
	return Alert{
		Severity:    SeveritySuccess,
		Title:       title,
		Description: description,
		Duration:    SuccessDuration,
	}
}

// Warning builds a sticky warning alert.
func Warning(title, description string) Alert {
	return Alert{Severity: SeverityWarning, Title: title, Description: description}
}

// Error builds a sticky error alert.
func Error(title, description string) Alert {
	return Alert{Severity: SeverityError, Title: title, Description: description}
}

// FromOutcome maps a submission outcome to its alert. Accepted submissions
// produce no alert at all; ok is false in that case.
func FromOutcome(o api.Outcome, url string) (alert Alert, ok bool) {
	switch o.Kind {
	case api.OutcomeAccepted:
		return Alert{}, false
	case api.OutcomeConflict:
		return Warning("Video already requested", fmt.Sprintf("%s was already requested", url)), true
	case api.OutcomeInvalid:
		return Error("Invalid video requested", o.Detail), true
	default:
		return Error("Job submission failed", o.Detail), true
	}
}
