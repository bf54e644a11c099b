package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/issue-service/internal/api/http/handlers"
	"github.com/civicdesk/issue-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Classify       *handlers.ClassifyHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/metrics", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Metrics.Show)

	app.Post("/classify", cfg.Classify.Classify)
	app.Get("/classify/rules", cfg.Classify.Rules)

	reports := app.Group("/reports")
	reports.Post("", cfg.AuthMiddleware.Optional, cfg.Reports.CreateReport)
	reports.Get("", cfg.Reports.ListReports)
	reports.Get("/nearby", cfg.Reports.Nearby)
	reports.Get("/:id", cfg.Reports.GetReport)
	reports.Post("/:id/withdraw", cfg.AuthMiddleware.Optional, cfg.Reports.WithdrawReport)

	me := app.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireCitizen())
	me.Get("/reports", cfg.Reports.ListMyReports)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/reports/:id", cfg.Admin.GetReport)
	admin.Get("/reports/:id/history", cfg.Admin.History)
	admin.Patch("/reports/:id/status", cfg.Admin.UpdateStatus)
	admin.Patch("/reports/:id/category", cfg.Admin.UpdateCategory)
	admin.Delete("/reports/:id", cfg.Admin.DeleteReport)
}
