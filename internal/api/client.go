// Package api wraps HTTP calls to the yodel server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/vmunix/yodel/internal/job"
)

// Client wraps HTTP calls to the yodel REST API. The API is mounted under
// /api on the server origin.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new yodel API client for the given server origin,
// e.g. "http://localhost:8080".
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// PendingJobs returns the jobs the server is still working on.
func (c *Client) PendingJobs(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	if err := c.get(ctx, "/api/jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CompletedJobs returns jobs that finished or failed.
func (c *Client) CompletedJobs(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	if err := c.get(ctx, "/api/completed-jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Locations returns the download destination catalog, sorted by name. The
// server reports it as a name -> path object.
func (c *Client) Locations(ctx context.Context) ([]job.Location, error) {
	var raw map[string]string
	if err := c.get(ctx, "/api/locations", &raw); err != nil {
		return nil, err
	}

	locations := make([]job.Location, 0, len(raw))
	for name, path := range raw {
		locations = append(locations, job.Location{Name: name, Path: path})
	}
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Name < locations[j].Name
	})
	return locations, nil
}

// Submit asks the server to start a new download job. The returned Outcome
// classifies the server's answer; err is non-nil only when no classifiable
// response arrived (transport failure, cancellation).
//
// Submit never touches local job state: the job's fate arrives exclusively
// over the push channel.
func (c *Client) Submit(ctx context.Context, url, location string) (Outcome, error) {
	payload, err := json.Marshal(submitRequest{URL: url, Location: location})
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/jobs", bytes.NewReader(payload))
	if err != nil {
		return Outcome{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return classify(resp), nil
}

type submitRequest struct {
	URL      string `json:"url"`
	Location string `json:"location"`
}

func classify(resp *http.Response) Outcome {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Outcome{Kind: OutcomeAccepted}
	}

	detail := readDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusConflict:
		return Outcome{Kind: OutcomeConflict, Detail: detail}
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return Outcome{Kind: OutcomeInvalid, Detail: detail}
	default:
		return Outcome{Kind: OutcomeRejected, Detail: detail}
	}
}

// readDetail extracts the server-supplied error detail. The server encodes
// error bodies as JSON strings; anything else is passed through raw.
func readDetail(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return ""
	}

	var msg string
	if err := json.Unmarshal(body, &msg); err == nil {
		return msg
	}
	return string(bytes.TrimSpace(body))
}
