// Package job defines the yodel job model and its wire representation.
package job

import (
	"time"
)

// Location is a named download destination. Name is the display key and the
// value sent on submission; Path is the server-side filesystem path and is
// display-only on this side.
type Location struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Job is one download task as reported by the server.
type Job struct {
	// ID is a client-issued stable identifier. The server does not assign
	// one, so the session store mints a UUID the first time a job identity
	// is seen and keeps it for the life of the session.
	ID        string    `json:"-"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Location  Location  `json:"location"`
	StartedOn time.Time `json:"startedOn"`
	Status    Status    `json:"status"`
}

// Key returns the server-side identity of the job. The server deduplicates
// on (url, location name), so two jobs with equal keys are the same job.
func (j Job) Key() string {
	return j.URL + "\x00" + j.Location.Name
}

// DisplayTitle returns the human-readable label, falling back to the URL
// when the server has not resolved a title yet.
func (j Job) DisplayTitle() string {
	if j.Title != "" {
		return j.Title
	}
	return j.URL
}
