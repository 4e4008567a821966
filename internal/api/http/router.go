package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nvdow/volunteerfinder/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Volunteers *handlers.VolunteersHandler
	Metrics    *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", IndexPage)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	api := app.Group("/api")
	api.Get("/volunteers", cfg.Volunteers.Find)
	api.Get("/volunteers/options", cfg.Volunteers.Options)
	api.Post("/volunteers/schedule", cfg.Volunteers.Schedule)
}
