package dto

import "github.com/spec-kit/feedback-portal/internal/domain"

// FeedbackRequest is the public submission form.
type FeedbackRequest struct {
	DepartmentID int64         `json:"departmentId" validate:"required"`
	Rating       domain.Rating `json:"rating" validate:"required,oneof=Excellent Good Neutral Satisfying Unsatisfying"`
	Comment      string        `json:"comment"`
}

// FeedbackCreatedResponse echoes the stored record.
type FeedbackCreatedResponse struct {
	Message  string          `json:"message"`
	Feedback domain.Feedback `json:"feedback"`
}
