package http

import (
	"context"
	"errors"
	"strconv"

	"projects-api/internal/projects/domain/model"
	apperrors "projects-api/internal/shared/errors"
	"projects-api/internal/shared/logger"
	"projects-api/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultChangesLimit = 50
	maxChangesLimit     = 1000
)

// ChangeHistory reads back recorded change events, newest first.
type ChangeHistory interface {
	Recent(ctx context.Context, count int64) ([]model.ChangeEvent, error)
}

// RegisterChangesRoute mounts GET path?limit=N over history.
func RegisterChangesRoute(router fiber.Router, path string, history ChangeHistory, log logger.Logger) {
	log = log.WithComponent("projects.http")
	router.Get(path, func(c *fiber.Ctx) error {
		ctx := utils.WithOperation(c.UserContext(), "list_changes")
		c.SetUserContext(ctx)

		limit, err := parseLimit(c.Query("limit"))
		if err != nil {
			return writeError(c, apperrors.NewInvalidLimitError(err))
		}

		events, err := history.Recent(ctx, int64(limit))
		if err != nil {
			log.WithContext(ctx).Errorf("Failed to read change history: %v", err)
			return writeError(c, apperrors.NewHistoryUnavailableError(err))
		}
		return c.JSON(events)
	})
}

// parseLimit defaults an empty value and caps large ones.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultChangesLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("limit must be positive")
	}
	return min(n, maxChangesLimit), nil
}
