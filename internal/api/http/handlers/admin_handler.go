package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/api/dto"
	"github.com/spec-kit/feedback-portal/internal/service"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// AdminHandler issues admin credentials.
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: authService}
}

// Login POST /api/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req, "email and password are required"); err != nil {
		return err
	}
	token, exp, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}

// IdentityProviderLogin POST /api/admin/microsoft-login.
func (h *AdminHandler) IdentityProviderLogin(c *fiber.Ctx) error {
	var req dto.IdentityProviderLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req, "idToken is required"); err != nil {
		return err
	}
	token, exp, err := h.auth.LoginWithIdentityProvider(c.UserContext(), req.IDToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}
