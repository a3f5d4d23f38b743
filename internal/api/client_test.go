package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/yodel/internal/job"
)

func TestPendingJobs(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/jobs").
		ExpectMethod(http.MethodGet).
		RespondJSON([]map[string]any{
			{"url": "https://youtu.be/v1", "title": nil, "status": "InProgress"},
			{"url": "https://youtu.be/v2", "title": "Second", "status": "InProgress"},
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	jobs, err := client.PendingJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "https://youtu.be/v1", jobs[0].URL)
	assert.Equal(t, job.StatusInProgress, jobs[0].Status.Kind)
	assert.Equal(t, "Second", jobs[1].Title)
}

func TestCompletedJobs(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/completed-jobs").
		RespondJSON([]map[string]any{
			{"url": "https://youtu.be/v1", "status": "Finished"},
			{"url": "https://youtu.be/v2", "status": map[string]string{"Failed": "no formats"}},
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	jobs, err := client.CompletedJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, job.StatusFinished, jobs[0].Status.Kind)
	assert.Equal(t, job.StatusFailed, jobs[1].Status.Kind)
	assert.Equal(t, "no formats", jobs[1].Status.Reason)
}

func TestPendingJobs_ServerError(t *testing.T) {
	srv := newMockServer(t).
		RespondStatus(http.StatusInternalServerError, "Internal Server Error, Please try later").
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.PendingJobs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestPendingJobs_ConnectionError(t *testing.T) {
	srv := newMockServer(t).Build()
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.PendingJobs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestLocations(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/locations").
		RespondJSON(map[string]string{
			"series": "/mnt/series",
			"movies": "/mnt/movies",
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	locations, err := client.Locations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 2)
	// Sorted by name regardless of map order.
	assert.Equal(t, job.Location{Name: "movies", Path: "/mnt/movies"}, locations[0])
	assert.Equal(t, job.Location{Name: "series", Path: "/mnt/series"}, locations[1])
}

func TestSubmit_Accepted(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/jobs").
		ExpectMethod(http.MethodPost).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				URL      string `json:"url"`
				Location string `json:"location"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://youtu.be/v1", req.URL)
			assert.Equal(t, "movies", req.Location)
			w.WriteHeader(http.StatusAccepted)
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	outcome, err := client.Submit(context.Background(), "https://youtu.be/v1", "movies")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, outcome.Kind)
	assert.True(t, outcome.Accepted())
}

func TestSubmit_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		detail string
		want   OutcomeKind
	}{
		{"conflict", http.StatusConflict, "Job already exists: Some Video", OutcomeConflict},
		{"unprocessable", http.StatusUnprocessableEntity, "invalid video", OutcomeInvalid},
		{"bad request", http.StatusBadRequest, "Invalid Location", OutcomeInvalid},
		{"server error", http.StatusInternalServerError, "Internal Server Error, Please try later", OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMockServer(t).
				RespondStatus(tt.status, tt.detail).
				Build()
			defer srv.Close()

			client := NewClient(srv.URL)
			outcome, err := client.Submit(context.Background(), "https://youtu.be/v1", "movies")
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Kind)
			assert.Equal(t, tt.detail, outcome.Detail)
			assert.False(t, outcome.Accepted())
		})
	}
}

func TestSubmit_TransportError(t *testing.T) {
	srv := newMockServer(t).Build()
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Submit(context.Background(), "https://youtu.be/v1", "movies")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestSubmit_NonJSONDetail(t *testing.T) {
	srv := newMockServer(t).
		Handler(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream gone\n"))
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	outcome, err := client.Submit(context.Background(), "https://youtu.be/v1", "movies")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome.Kind)
	assert.Equal(t, "upstream gone", outcome.Detail)
}
