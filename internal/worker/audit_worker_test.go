package worker

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/events"
	"github.com/spec-kit/feedback-portal/internal/observability"
)

func TestAuditWorkerLogsAndCounts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core), metrics)
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventDepartmentCreated, 7,
		events.DepartmentPayload{Name: "Library"})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventDepartmentActivated, 7,
		events.DepartmentPayload{Name: "Library", Active: true})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventFeedbackSubmitted, 7,
		events.FeedbackSubmittedPayload{FeedbackID: 99, Rating: domain.RatingGood, CommentLength: 12})))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "department changed", entries[0].Message)
	assert.Equal(t, "Library", entries[0].ContextMap()["name"])
	assert.Equal(t, "feedback submitted", entries[2].Message)
	fields := entries[2].ContextMap()
	assert.Equal(t, "Good", fields["rating"])
	assert.NotContains(t, fields, "comment")

	expected := `
# HELP feedback_submissions_total Accepted feedback submissions by rating.
# TYPE feedback_submissions_total counter
feedback_submissions_total{rating="Good"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "feedback_submissions_total"))
	count, err := testutil.GatherAndCount(reg, "department_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAuditWorkerWithoutDispatcher(t *testing.T) {
	w := StartAuditWorker(nil, nil, nil)
	require.NotNil(t, w)
	assert.NoError(t, w.handleFeedbackSubmitted(context.Background(), events.Event{Type: events.EventFeedbackSubmitted}))
}
