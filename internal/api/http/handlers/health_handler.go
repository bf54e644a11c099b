package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name   string
	pinger Pinger
}

// HealthHandler serves the liveness and readiness endpoints. Readiness needs Postgres,
// which stores reports and their history, and Redis, which holds the shared submission counters.
type HealthHandler struct {
	serviceName string
	version     string
	deps        []dependency
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps:        []dependency{{name: "postgres", pinger: postgres}, {name: "redis", pinger: redis}},
	}
}

// Live answers as long as the process can serve HTTP.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready pings every dependency and answers 503 with per-dependency errors if any is down.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true
	for _, dep := range h.deps {
		if dep.pinger == nil {
			depStatus[dep.name] = "not configured"
			ready = false
			continue
		}
		if err := dep.pinger.Ping(ctx); err != nil {
			depStatus[dep.name] = err.Error()
			ready = false
			continue
		}
		depStatus[dep.name] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "report storage or rate limit store unavailable",
			"details": depStatus,
		},
	})
}
