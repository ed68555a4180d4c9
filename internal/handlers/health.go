// Package handlers contains the HTTP route handler functions for the Scorecard API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, calling the stores, and writing a response.
//
// Exported functions follow the "handler factory" pattern: they take their dependencies
// (stores, cache, hub) and return a fiber.Handler, so nothing lives in global variables.
package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health.
// It is deliberately lightweight: no database queries and no authentication, so load
// balancers and container probes can call it freely.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
