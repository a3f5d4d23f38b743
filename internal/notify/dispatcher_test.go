package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/yodel/internal/api"
	"github.com/vmunix/yodel/internal/events"
	"github.com/vmunix/yodel/internal/job"
	"github.com/vmunix/yodel/internal/notify"
	"github.com/vmunix/yodel/internal/notify/mocks"
)

func finishedEvent(id, url string) events.JobFinished {
	return events.JobFinished{
		BaseEvent: events.NewBaseEvent(events.EventJobFinished),
		JobID:     id,
		Job:       job.Job{ID: id, URL: url, Status: job.Status{Kind: job.StatusFinished}},
	}
}

func failedEvent(id, url, reason string) events.JobFailed {
	return events.JobFailed{
		BaseEvent: events.NewBaseEvent(events.EventJobFailed),
		JobID:     id,
		Job:       job.Job{ID: id, URL: url, Status: job.Status{Kind: job.StatusFailed, Reason: reason}},
		Reason:    reason,
	}
}

func TestDispatcherFinishedAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)

	var shown notify.Alert
	sink.EXPECT().Show(gomock.Any()).Do(func(a notify.Alert) { shown = a }).Times(1)

	d := notify.NewDispatcher(sink, nil, nil)
	d.Handle(finishedEvent("id-1", "https://youtu.be/v1"))

	assert.Equal(t, notify.SeveritySuccess, shown.Severity)
	assert.Equal(t, 5*time.Second, shown.Duration)
	assert.False(t, shown.Sticky())
	assert.Contains(t, shown.Description, "https://youtu.be/v1")
}

func TestDispatcherFailedAlertIsSticky(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)

	var shown notify.Alert
	sink.EXPECT().Show(gomock.Any()).Do(func(a notify.Alert) { shown = a }).Times(1)

	d := notify.NewDispatcher(sink, nil, nil)
	d.Handle(failedEvent("id-1", "https://youtu.be/v1", "no formats found"))

	assert.Equal(t, notify.SeverityError, shown.Severity)
	assert.True(t, shown.Sticky())
	assert.Equal(t, "no formats found", shown.Description)
}

func TestDispatcherDeduplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)

	// Redelivered event for the same job and kind: exactly one alert.
	sink.EXPECT().Show(gomock.Any()).Times(1)

	d := notify.NewDispatcher(sink, nil, nil)
	d.Handle(finishedEvent("id-1", "https://youtu.be/v1"))
	d.Handle(finishedEvent("id-1", "https://youtu.be/v1"))
}

func TestDispatcherDistinctKindsAndJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)

	// Same job failing then finishing, plus a second job: three alerts.
	sink.EXPECT().Show(gomock.Any()).Times(3)

	d := notify.NewDispatcher(sink, nil, nil)
	d.Handle(failedEvent("id-1", "https://youtu.be/v1", "flaky network"))
	d.Handle(finishedEvent("id-1", "https://youtu.be/v1"))
	d.Handle(finishedEvent("id-2", "https://youtu.be/v2"))
}

func TestDispatcherIgnoresNonTerminalEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	// No Show expectations: a state flip or list replace must not alert.

	d := notify.NewDispatcher(sink, nil, nil)
	d.Handle(events.ConnStateChanged{BaseEvent: events.NewBaseEvent(events.EventConnState), State: "disconnected"})
	d.Handle(events.PendingReplaced{BaseEvent: events.NewBaseEvent(events.EventPendingReplaced)})
}

func TestDispatcherRecordsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	sink.EXPECT().Show(gomock.Any()).Times(1)

	history, err := notify.OpenHistory(t.TempDir() + "/history.db")
	require.NoError(t, err)
	defer history.Close()

	d := notify.NewDispatcher(sink, history, nil)
	d.Handle(finishedEvent("id-1", "https://youtu.be/v1"))

	entries, err := history.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "id-1", entries[0].JobID)
	assert.Equal(t, events.EventJobFinished, entries[0].Kind)
}

func TestFromOutcome(t *testing.T) {
	_, ok := notify.FromOutcome(api.Outcome{Kind: api.OutcomeAccepted}, "https://youtu.be/v1")
	assert.False(t, ok, "accepted submissions produce no alert")

	alert, ok := notify.FromOutcome(api.Outcome{Kind: api.OutcomeConflict}, "https://youtu.be/v1")
	require.True(t, ok)
	assert.Equal(t, notify.SeverityWarning, alert.Severity)
	assert.Contains(t, alert.Title, "already requested")
	assert.True(t, alert.Sticky())

	alert, ok = notify.FromOutcome(api.Outcome{Kind: api.OutcomeInvalid, Detail: "Invalid Location"}, "x")
	require.True(t, ok)
	assert.Equal(t, notify.SeverityError, alert.Severity)
	assert.Contains(t, alert.Title, "Invalid video")

	alert, ok = notify.FromOutcome(api.Outcome{Kind: api.OutcomeRejected, Detail: "Internal Server Error"}, "x")
	require.True(t, ok)
	assert.Equal(t, notify.SeverityError, alert.Severity)
	assert.Equal(t, "Internal Server Error", alert.Description)
}
