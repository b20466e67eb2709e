package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/events"
	"github.com/spec-kit/feedback-portal/internal/observability"
)

// AuditWorker writes an audit trail of registry and intake events.
type AuditWorker struct {
	logger  *zap.Logger
	metrics *observability.Metrics
}

// StartAuditWorker subscribes the audit handlers to every domain event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &AuditWorker{logger: logger.Named("audit"), metrics: metrics}
	if dispatcher == nil {
		return w
	}
	for _, et := range events.DepartmentEventTypes {
		dispatcher.Subscribe(et, w.handleDepartmentEvent)
	}
	dispatcher.Subscribe(events.EventFeedbackSubmitted, w.handleFeedbackSubmitted)
	return w
}

func (w *AuditWorker) handleDepartmentEvent(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("department_id", event.DepartmentID),
		zap.Time("at", event.Timestamp),
	}
	switch p := event.Payload.(type) {
	case events.DepartmentPayload:
		fields = append(fields, zap.String("name", p.Name), zap.Bool("active", p.Active))
	case events.DepartmentDeletedPayload:
		fields = append(fields, zap.String("name", p.Name), zap.Bool("was_active", p.WasActive))
	case events.ActiveClearedPayload:
		fields = append(fields, zap.Int("deactivated", p.Deactivated))
	}
	w.logger.Info("department changed", fields...)
	w.metrics.RecordDepartmentEvent(string(event.Type))
	return nil
}

// Comment text is never logged; submissions are anonymous.
func (w *AuditWorker) handleFeedbackSubmitted(_ context.Context, event events.Event) error {
	p, ok := event.Payload.(events.FeedbackSubmittedPayload)
	if !ok {
		w.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	w.logger.Info("feedback submitted",
		zap.String("event_id", event.ID),
		zap.Int64("feedback_id", p.FeedbackID),
		zap.Int64("department_id", event.DepartmentID),
		zap.String("rating", string(p.Rating)),
		zap.Int("comment_length", p.CommentLength),
	)
	w.metrics.RecordFeedback(string(p.Rating))
	return nil
}
