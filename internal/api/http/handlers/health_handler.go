package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nvdow/volunteerfinder/internal/roster"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	loader      *roster.Loader
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, loader *roster.Loader) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, loader: loader}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking that the roster is loadable.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	depStatus := fiber.Map{}

	if _, err := h.loader.Load(c.UserContext()); err != nil {
		depStatus["roster"] = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": depStatus,
			},
		})
	}

	depStatus["roster"] = "ok"
	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": depStatus,
	})
}
