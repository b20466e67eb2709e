package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/events"
	"github.com/spec-kit/feedback-portal/internal/repository"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// FeedbackService accepts anonymous feedback and lists it for admins.
type FeedbackService struct {
	departments repository.DepartmentRepository
	feedback    repository.FeedbackRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
	lastID      int64 // guarded by the feedback write lock
}

// FeedbackDependencies encapsulates repositories required for intake.
type FeedbackDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	FeedbackRepo   repository.FeedbackRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// SubmitFeedbackInput is one form submission.
type SubmitFeedbackInput struct {
	DepartmentID int64
	Rating       domain.Rating
	Comment      string
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		departments: deps.DepartmentRepo,
		feedback:    deps.FeedbackRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit validates and appends one feedback record.
//
// The department check runs under the departments read lock and the append
// under the feedback write lock taken inside it, so a concurrent Delete cannot
// remove the department between check and append. Lock order is always
// departments, then feedback.
func (s *FeedbackService) Submit(ctx context.Context, in SubmitFeedbackInput) (*domain.Feedback, error) {
	if err := validateSubmission(in); err != nil {
		return nil, err
	}
	comment := domain.TruncateComment(in.Comment)

	var created domain.Feedback
	err := s.departments.View(ctx, func(depts []domain.Department) error {
		if repository.FindDepartment(depts, in.DepartmentID) < 0 {
			return apperrors.NewUnknownDepartment(in.DepartmentID)
		}
		return s.feedback.Update(ctx, func(items []domain.Feedback) ([]domain.Feedback, error) {
			now := s.now()
			created = domain.Feedback{
				ID:           domain.NextID(now, append(feedbackIDs(items), s.lastID)),
				DepartmentID: in.DepartmentID,
				Rating:       in.Rating,
				Comment:      comment,
				CreatedAt:    now.UTC(),
			}
			s.lastID = created.ID
			return append(items, created), nil
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventFeedbackSubmitted, created.DepartmentID,
		events.FeedbackSubmittedPayload{
			FeedbackID:    created.ID,
			Rating:        created.Rating,
			CommentLength: utf8.RuneCountInString(created.Comment),
		}))
	return &created, nil
}

// List returns all feedback in submission order.
func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.feedback.LoadAll(ctx)
}

func validateSubmission(in SubmitFeedbackInput) error {
	details := map[string]any{}
	if in.DepartmentID == 0 {
		details["departmentId"] = "required"
	}
	switch {
	case in.Rating == "":
		details["rating"] = "required"
	case !in.Rating.Valid():
		details["rating"] = "must be one of " + ratingList()
	}
	if len(details) == 0 {
		return nil
	}
	if _, ok := details["rating"]; ok && in.Rating != "" && len(details) == 1 {
		return apperrors.NewValidationError("invalid rating", details)
	}
	return apperrors.NewValidationError("departmentId and rating are required", details)
}

func ratingList() string {
	names := make([]string, len(domain.Ratings))
	for i, r := range domain.Ratings {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func feedbackIDs(items []domain.Feedback) []int64 {
	ids := make([]int64, len(items))
	for i, f := range items {
		ids[i] = f.ID
	}
	return ids
}
