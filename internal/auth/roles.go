package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// RequireRole ensures the authenticated principal carries role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != role {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
