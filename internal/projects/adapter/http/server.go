package http

import (
	"errors"

	"projects-api/internal/projects/config"
	apperrors "projects-api/internal/shared/errors"
	"projects-api/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const appName = "Projects API v1.0"

// NewFiberApp builds the Fiber application with the global middleware in
// order: panic recovery, CORS for any origin, then request logging.
func NewFiberApp(cfg config.ServerConfig, log logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(RequestLogger(log))

	return app
}

// errorHandler keeps Fiber's own status codes (404, 405, 426, ...) and turns
// everything else into a 500. Responses use the {"error": ...} shape.
func errorHandler(log logger.Logger) fiber.ErrorHandler {
	log = log.WithComponent("http")
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.WithContext(c.UserContext()).Errorf("HTTP Error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": apperrors.MsgInternalServer,
		})
	}
}
