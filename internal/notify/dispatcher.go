package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/yodel/internal/events"
)

// Sink renders alerts to the user.
type Sink interface {
	Show(alert Alert)
}

// Dispatcher converts terminal job events into alerts. Delivery on the push
// channel is at-least-once across reconnects, so the dispatcher remembers
// which (job, kind) pairs it has already surfaced and shows each exactly
// once. Shown alerts are recorded to the history store when one is attached.
type Dispatcher struct {
	sink    Sink
	history *History // may be nil
	logger  *slog.Logger
	seen    map[string]struct{}
}

// NewDispatcher creates a dispatcher rendering into sink. history may be nil
// to disable persistence.
func NewDispatcher(sink Sink, history *History, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sink:    sink,
		history: history,
		logger:  logger,
		seen:    make(map[string]struct{}),
	}
}

// Run consumes events from ch until it closes or ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context, ch <-chan events.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			d.Handle(e)
		}
	}
}

// Handle processes a single event. Non-terminal events are ignored.
func (d *Dispatcher) Handle(e events.Event) {
	switch evt := e.(type) {
	case events.JobFinished:
		if d.dedupe(evt.JobID, evt.EventType()) {
			return
		}
		alert := Success("Download finished", evt.Job.DisplayTitle())
		d.sink.Show(alert)
		d.record(evt.JobID, evt.EventType(), alert)

	case events.JobFailed:
		if d.dedupe(evt.JobID, evt.EventType()) {
			return
		}
		alert := Error(fmt.Sprintf("Download failed: %s", evt.Job.DisplayTitle()), evt.Reason)
		d.sink.Show(alert)
		d.record(evt.JobID, evt.EventType(), alert)
	}
}

// dedupe returns true when this (job, kind) pair was already surfaced.
func (d *Dispatcher) dedupe(jobID, kind string) bool {
	key := jobID + "/" + kind
	if _, dup := d.seen[key]; dup {
		d.logger.Debug("suppressing duplicate alert", "job_id", jobID, "kind", kind)
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// record persists the alert best-effort; failures log and never block
// dispatch.
func (d *Dispatcher) record(jobID, kind string, alert Alert) {
	if d.history == nil {
		return
	}
	if _, err := d.history.Record(jobID, kind, alert); err != nil {
		d.logger.Error("failed to persist alert", "job_id", jobID, "error", err)
	}
}
