package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/yodel/internal/job"
	"github.com/vmunix/yodel/internal/stream"
)

func pendingJob(url string) job.Job {
	return job.Job{
		URL:      url,
		Location: job.Location{Name: "movies", Path: "/mnt/movies"},
		Status:   job.Status{Kind: job.StatusInProgress},
	}
}

func TestStoreReplaceSemantics(t *testing.T) {
	s := NewStore()
	s.ReplacePending([]job.Job{pendingJob("v1"), pendingJob("v2"), pendingJob("v3")})

	// A later replace fully supersedes the old content, overlap or not.
	s.ReplacePending([]job.Job{pendingJob("v2"), pendingJob("v4")})

	got := s.Pending()
	require.Len(t, got, 2)
	assert.Equal(t, "v2", got[0].URL)
	assert.Equal(t, "v4", got[1].URL)
}

func TestStoreReplaceEmpty(t *testing.T) {
	s := NewStore()
	s.ReplacePending([]job.Job{pendingJob("v1")})
	s.ReplacePending(nil)
	assert.Empty(t, s.Pending())
}

func TestStoreStableIdentity(t *testing.T) {
	s := NewStore()
	s.ReplacePending([]job.Job{pendingJob("v1")})
	first := s.Pending()[0].ID
	require.NotEmpty(t, first)

	// Same identity across a replace keeps the ID.
	s.ReplacePending([]job.Job{pendingJob("v1"), pendingJob("v2")})
	got := s.Pending()
	assert.Equal(t, first, got[0].ID)
	assert.NotEqual(t, first, got[1].ID)

	// The ID survives the move from pending to completed.
	done := pendingJob("v1")
	done.Status = job.Status{Kind: job.StatusFinished}
	s.ReplacePending([]job.Job{pendingJob("v2")})
	s.ReplaceCompleted([]job.Job{done})
	assert.Equal(t, first, s.Completed()[0].ID)

	// Same URL at a different location is a different job.
	other := pendingJob("v1")
	other.Location.Name = "series"
	assert.NotEqual(t, first, s.IdentityFor(other))
}

func TestStoreReadsAreCopies(t *testing.T) {
	s := NewStore()
	s.ReplacePending([]job.Job{pendingJob("v1")})

	got := s.Pending()
	got[0].URL = "mutated"
	assert.Equal(t, "v1", s.Pending()[0].URL)
}

func TestStoreConnState(t *testing.T) {
	s := NewStore()
	assert.Equal(t, stream.StateDisconnected, s.ConnState())

	s.SetConnState(stream.StateConnected)
	assert.Equal(t, stream.StateConnected, s.ConnState())
}

func TestStoreCounts(t *testing.T) {
	s := NewStore()
	s.ReplacePending([]job.Job{pendingJob("v1"), pendingJob("v2")})
	s.ReplaceCompleted([]job.Job{pendingJob("v3")})

	pending, completed := s.Counts()
	assert.Equal(t, 2, pending)
	assert.Equal(t, 1, completed)
}

func TestStoreLocations(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.Locations())

	s.SetLocations([]job.Location{{Name: "movies", Path: "/mnt/movies"}})
	got := s.Locations()
	require.Len(t, got, 1)
	assert.Equal(t, "movies", got[0].Name)
}
