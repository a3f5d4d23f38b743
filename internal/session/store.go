// Package session owns the client-side view of the server's job state: the
// snapshot load, the reconciliation of push messages, and the single state
// store everything else reads from.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vmunix/yodel/internal/job"
	"github.com/vmunix/yodel/internal/stream"
)

// Store is the single owner of session state: the pending and completed job
// lists, the location catalog, and the connection state. Mutations happen
// through one entry point per reconciliation rule; reads return copies, so a
// reader never observes a partially replaced list.
//
// The store also issues a stable identifier per job identity. The server has
// none — a job is only (url, location) — so the first time an identity is
// seen it gets a UUID, and every later appearance of the same identity,
// pending or completed, keeps it.
type Store struct {
	mu        sync.RWMutex
	pending   []job.Job
	completed []job.Job
	locations []job.Location
	connState stream.State
	ids       map[string]string // job.Key() -> client-issued UUID
}

// NewStore creates an empty store in the disconnected state.
func NewStore() *Store {
	return &Store{
		connState: stream.StateDisconnected,
		ids:       make(map[string]string),
	}
}

// ReplacePending replaces the entire pending list. Entries absent from the
// new list disappear; entries whose identity was seen before keep their ID.
func (s *Store) ReplacePending(list []job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.withIDs(list)
}

// ReplaceCompleted replaces the entire completed list with the same
// semantics as ReplacePending.
func (s *Store) ReplaceCompleted(list []job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = s.withIDs(list)
}

// SetLocations stores the location catalog from the snapshot.
func (s *Store) SetLocations(list []job.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append([]job.Location(nil), list...)
}

// SetConnState records the push channel state.
func (s *Store) SetConnState(st stream.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connState = st
}

// IdentityFor returns the stable ID for a job, minting one if this identity
// has never been seen. Used for terminal events that reference jobs which
// may not be in either list yet.
func (s *Store) IdentityFor(j job.Job) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idFor(j)
}

// Pending returns a copy of the pending list.
func (s *Store) Pending() []job.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]job.Job(nil), s.pending...)
}

// Completed returns a copy of the completed list.
func (s *Store) Completed() []job.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]job.Job(nil), s.completed...)
}

// Locations returns a copy of the location catalog.
func (s *Store) Locations() []job.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]job.Location(nil), s.locations...)
}

// ConnState returns the current push channel state.
func (s *Store) ConnState() stream.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connState
}

// Counts returns the sizes of both lists in one consistent read.
func (s *Store) Counts() (pending, completed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending), len(s.completed)
}

// withIDs copies the list and stamps stable IDs. Callers hold the lock.
func (s *Store) withIDs(list []job.Job) []job.Job {
	out := make([]job.Job, len(list))
	for i, j := range list {
		j.ID = s.idFor(j)
		out[i] = j
	}
	return out
}

func (s *Store) idFor(j job.Job) string {
	key := j.Key()
	if id, ok := s.ids[key]; ok {
		return id
	}
	id := uuid.NewString()
	s.ids[key] = id
	return id
}
