package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-portal/internal/api/http/handlers"
	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/config"
	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Departments    *handlers.DepartmentsHandler
	Feedback       *handlers.FeedbackHandler
	Stats          *handlers.StatsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	AuthMode       string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Handler())

	api := app.Group("/api")
	admin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin)}

	departments := api.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Get("/active", cfg.Departments.ListActive)
	departments.Post("/", append(admin, cfg.Departments.Create)...)
	departments.Put("/active/clear", append(admin, cfg.Departments.ClearActive)...)
	departments.Put("/:id/active", append(admin, cfg.Departments.SetActive)...)
	departments.Put("/:id", append(admin, cfg.Departments.Rename)...)
	departments.Delete("/:id", append(admin, cfg.Departments.Delete)...)

	feedback := api.Group("/feedback")
	feedback.Post("/", cfg.Feedback.Submit)
	feedback.Get("/", append(admin, cfg.Feedback.List)...)
	feedback.Get("/export", append(admin, cfg.Feedback.Export)...)

	api.Get("/stats", append(admin, cfg.Stats.Stats)...)

	switch cfg.AuthMode {
	case config.AuthModeIdentityProvider:
		api.Post("/admin/microsoft-login", cfg.Admin.IdentityProviderLogin)
	default:
		api.Post("/admin/login", cfg.Admin.Login)
	}
}
