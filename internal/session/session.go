package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/yodel/internal/api"
	"github.com/vmunix/yodel/internal/events"
	"github.com/vmunix/yodel/internal/job"
	"github.com/vmunix/yodel/internal/stream"
)

// ErrSubmitInFlight is returned when a submission is attempted while another
// one has not completed yet.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// API is the subset of the REST client a session needs.
type API interface {
	PendingJobs(ctx context.Context) ([]job.Job, error)
	CompletedJobs(ctx context.Context) ([]job.Job, error)
	Locations(ctx context.Context) ([]job.Location, error)
	Submit(ctx context.Context, url, location string) (api.Outcome, error)
}

// Session ties the snapshot load, the push stream, and the reconciler
// together for the lifetime of one client session.
type Session struct {
	api        API
	stream     *stream.Manager
	store      *Store
	bus        *events.Bus
	reconciler *Reconciler
	logger     *slog.Logger
	submitting atomic.Bool
}

// New creates a session. The caller keeps ownership of the bus for
// subscribing; the session owns everything else.
func New(apiClient API, mgr *stream.Manager, bus *events.Bus, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	store := NewStore()
	return &Session{
		api:        apiClient,
		stream:     mgr,
		store:      store,
		bus:        bus,
		reconciler: NewReconciler(store, bus, logger.With("component", "reconciler")),
		logger:     logger,
	}
}

// Store exposes the session state for readers (rendering, tests).
func (s *Session) Store() *Store {
	return s.store
}

// Run starts the snapshot fetches, the push stream, and the reconcile loop,
// and blocks until ctx is canceled. The three snapshot fetches and the
// stream race freely; none of them can block startup, and a failed snapshot
// fetch degrades to an empty list.
func (s *Session) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs, err := s.api.PendingJobs(ctx)
		if err != nil {
			s.logger.Warn("pending snapshot failed", "error", err)
			return nil
		}
		s.reconcileSnapshot(job.KindPendingJobs, jobs)
		return nil
	})

	g.Go(func() error {
		jobs, err := s.api.CompletedJobs(ctx)
		if err != nil {
			s.logger.Warn("completed snapshot failed", "error", err)
			return nil
		}
		s.reconcileSnapshot(job.KindCompletedJobs, jobs)
		return nil
	})

	g.Go(func() error {
		locations, err := s.api.Locations(ctx)
		if err != nil {
			s.logger.Warn("location snapshot failed", "error", err)
			return nil
		}
		s.store.SetLocations(locations)
		return nil
	})

	g.Go(func() error {
		return s.stream.Run(ctx)
	})

	g.Go(func() error {
		return s.loop(ctx)
	})

	return g.Wait()
}

// loop is the single writer of session state: it serializes push messages
// and connection transitions onto the store.
func (s *Session) loop(ctx context.Context) error {
	messages := s.stream.Messages()
	states := s.stream.States()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case st := <-states:
			s.store.SetConnState(st)
			s.bus.Publish(events.ConnStateChanged{
				BaseEvent: events.NewBaseEvent(events.EventConnState),
				State:     string(st),
			})
		case data, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			s.reconciler.Apply(data)
		}
	}
}

// reconcileSnapshot funnels a REST snapshot through the same replace rules
// as a push message, so snapshot and stream cannot disagree on semantics.
func (s *Session) reconcileSnapshot(kind job.EnvelopeKind, jobs []job.Job) {
	switch kind {
	case job.KindPendingJobs:
		s.store.ReplacePending(jobs)
		s.bus.Publish(events.PendingReplaced{
			BaseEvent: events.NewBaseEvent(events.EventPendingReplaced),
			Jobs:      s.store.Pending(),
		})
	case job.KindCompletedJobs:
		s.store.ReplaceCompleted(jobs)
		s.bus.Publish(events.CompletedReplaced{
			BaseEvent: events.NewBaseEvent(events.EventCompletedReplaced),
			Jobs:      s.store.Completed(),
		})
	}
}

// Submit sends a job-creation request, allowing only one in flight at a
// time. Local state is never touched: the new job shows up through the push
// stream once the server reports it.
func (s *Session) Submit(ctx context.Context, url, location string) (api.Outcome, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return api.Outcome{}, ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	return s.api.Submit(ctx, url, location)
}
