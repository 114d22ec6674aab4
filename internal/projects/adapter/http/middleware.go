package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"projects-api/internal/projects/domain/model"
	apperrors "projects-api/internal/shared/errors"
	"projects-api/internal/shared/logger"
	"projects-api/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestLogger times every request from entry until the downstream chain has
// returned and logs the duration under the label "[METHOD] url". A request id
// from X-Request-ID, or a fresh one, is attached to the user context and
// echoed in the response.
func RequestLogger(log logger.Logger) fiber.Handler {
	log = log.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := strings.ToUpper(c.Method())
		path := c.Path()
		label := fmt.Sprintf("[%s] %s", method, c.OriginalURL())

		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)
		c.SetUserContext(utils.WithRequestID(c.UserContext(), requestID))

		err := c.Next()

		elapsed := time.Since(start)
		log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"label":       label,
			"method":      method,
			"path":        path,
			"status":      responseStatus(c, err),
			"duration_ms": float64(elapsed.Microseconds()) / 1000,
		}).Infof("%s: %s", label, elapsed)

		return err
	}
}

// responseStatus is the status the client will see once err, if any, has been
// through the app error handler.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// ValidateProjectID rejects requests whose :id segment is not a canonical
// UUID. Accepted ids are stored in the user context for downstream logging.
func ValidateProjectID(log logger.Logger) Interceptor {
	log = log.WithComponent("http")
	return func(c *fiber.Ctx) Verdict {
		id := c.Params("id")
		if !model.IsValidID(id) {
			log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
				"project_id": id,
			}).Debug("Rejected malformed project ID")
			return RejectWith(apperrors.NewInvalidProjectIDError())
		}
		c.SetUserContext(utils.WithProjectID(c.UserContext(), id))
		return Continue()
	}
}
