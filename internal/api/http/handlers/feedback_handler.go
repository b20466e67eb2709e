package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/api/dto"
	"github.com/spec-kit/feedback-portal/internal/service"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// FeedbackHandler serves public submission and admin listing/export.
type FeedbackHandler struct {
	service *service.FeedbackService
	export  *service.ExportService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService, exportService *service.ExportService) *FeedbackHandler {
	return &FeedbackHandler{service: feedbackService, export: exportService}
}

// Submit POST /api/feedback.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	message := "departmentId and rating are required"
	if req.DepartmentID != 0 && req.Rating != "" {
		message = "invalid rating"
	}
	if err := dto.Validate(&req, message); err != nil {
		return err
	}

	fb, err := h.service.Submit(c.UserContext(), service.SubmitFeedbackInput{
		DepartmentID: req.DepartmentID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FeedbackCreatedResponse{
		Message:  "Feedback saved",
		Feedback: *fb,
	})
}

// List GET /api/feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Export GET /api/feedback/export.
func (h *FeedbackHandler) Export(c *fiber.Ctx) error {
	data, err := h.export.Export(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, service.ExportContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+service.ExportFileName)
	return c.Send(data)
}
