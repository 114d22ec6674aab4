package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthChecker reports whether the service's dependencies are reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ProjectCounter reports the collection size.
type ProjectCounter interface {
	CountProjects(ctx context.Context) int
}

// RegisterHealthRoute mounts GET /health.
func RegisterHealthRoute(router fiber.Router, checker HealthChecker, counter ProjectCounter) {
	router.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		if err := checker.HealthCheck(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "UNHEALTHY",
				"error":   err.Error(),
				"message": "One or more services are unhealthy",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "Projects API is running",
			"timestamp": time.Now().UTC(),
			"projects":  counter.CountProjects(ctx),
		})
	})
}
