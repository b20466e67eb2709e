package repository

import (
	"context"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
)

// FeedbackRepository manages the append-only feedback collection.
type FeedbackRepository interface {
	LoadAll(ctx context.Context) ([]domain.Feedback, error)
	ReplaceAll(ctx context.Context, items []domain.Feedback) error
	View(ctx context.Context, fn func([]domain.Feedback) error) error
	Update(ctx context.Context, fn func([]domain.Feedback) ([]domain.Feedback, error)) error
}

// NewFeedbackRepository builds the repository.
func NewFeedbackRepository(store persistence.DocumentStore) FeedbackRepository {
	return NewCollection[domain.Feedback](persistence.CollectionFeedback, store)
}
