package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/api/dto"
	"github.com/spec-kit/feedback-portal/internal/service"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// DepartmentsHandler exposes the department registry.
type DepartmentsHandler struct {
	service *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService}
}

// List GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(depts)
}

// ListActive GET /api/departments/active.
func (h *DepartmentsHandler) ListActive(c *fiber.Ctx) error {
	depts, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(depts)
}

// Create POST /api/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	req, err := parseDepartmentRequest(c)
	if err != nil {
		return err
	}
	dept, err := h.service.Create(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dept)
}

// Rename PUT /api/departments/:id.
func (h *DepartmentsHandler) Rename(c *fiber.Ctx) error {
	id, err := departmentID(c)
	if err != nil {
		return err
	}
	req, err := parseDepartmentRequest(c)
	if err != nil {
		return err
	}
	dept, err := h.service.Rename(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dept)
}

// SetActive PUT /api/departments/:id/active.
func (h *DepartmentsHandler) SetActive(c *fiber.Ctx) error {
	id, err := departmentID(c)
	if err != nil {
		return err
	}
	dept, err := h.service.SetActive(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dept)
}

// ClearActive PUT /api/departments/active/clear.
func (h *DepartmentsHandler) ClearActive(c *fiber.Ctx) error {
	if err := h.service.ClearActive(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Active department cleared"})
}

// Delete DELETE /api/departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	id, err := departmentID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Department deleted"})
}

func parseDepartmentRequest(c *fiber.Ctx) (*dto.DepartmentRequest, error) {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req, "name is required"); err != nil {
		return nil, err
	}
	return &req, nil
}

// An id that is not a number cannot match any department.
func departmentID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewNotFound("department", map[string]any{"id": raw})
	}
	return id, nil
}
