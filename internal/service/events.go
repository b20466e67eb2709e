package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/events"
)

// publish notifies subscribers after a mutation is durable. Subscriber
// failures are logged and never undo or fail the mutation.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
