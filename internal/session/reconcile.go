package session

import (
	"log/slog"

	"github.com/vmunix/yodel/internal/events"
	"github.com/vmunix/yodel/internal/job"
)

// Reconciler applies push messages to the store in strict arrival order and
// publishes the resulting session events.
//
// List messages replace the matching list wholesale; terminal messages never
// mutate lists (the authoritative lists follow in their own messages), they
// only surface the event. A frame that fails validation is dropped and
// logged; the connection stays up.
type Reconciler struct {
	store  *Store
	bus    *events.Bus
	logger *slog.Logger
}

// NewReconciler creates a reconciler writing into store and publishing onto
// bus.
func NewReconciler(store *Store, bus *events.Bus, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, bus: bus, logger: logger}
}

// Apply processes one raw push frame.
func (r *Reconciler) Apply(data []byte) {
	env, err := job.ParseEnvelope(data)
	if err != nil {
		r.logger.Warn("dropping bad push message", "error", err)
		return
	}

	switch env.Kind {
	case job.KindPendingJobs:
		r.store.ReplacePending(env.Jobs)
		r.bus.Publish(events.PendingReplaced{
			BaseEvent: events.NewBaseEvent(events.EventPendingReplaced),
			Jobs:      r.store.Pending(),
		})

	case job.KindCompletedJobs:
		r.store.ReplaceCompleted(env.Jobs)
		r.bus.Publish(events.CompletedReplaced{
			BaseEvent: events.NewBaseEvent(events.EventCompletedReplaced),
			Jobs:      r.store.Completed(),
		})

	case job.KindFinished:
		j := env.Job
		j.ID = r.store.IdentityFor(j)
		r.bus.Publish(events.JobFinished{
			BaseEvent: events.NewBaseEvent(events.EventJobFinished),
			JobID:     j.ID,
			Job:       j,
		})

	case job.KindFailed:
		j := env.Job
		j.ID = r.store.IdentityFor(j)
		reason := env.Reason
		if reason == "" {
			reason = j.Status.Reason
		}
		r.bus.Publish(events.JobFailed{
			BaseEvent: events.NewBaseEvent(events.EventJobFailed),
			JobID:     j.ID,
			Job:       j,
			Reason:    reason,
		})
	}
}
