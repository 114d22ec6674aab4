package http

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"projects-api/internal/shared/logger"
	"projects-api/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewZapLoggerFrom(zap.New(core)), logs
}

func TestRequestLogger_LogsLabelAndDuration(t *testing.T) {
	log, logs := observedLogger()
	app, _ := newTestAppWithLogger(t, log)

	status, _ := doJSON(t, app, "GET", "/projects?title=Rea", nil)
	require.Equal(t, fiber.StatusOK, status)

	entries := logs.FilterMessageSnippet("[GET] /projects?title=Rea: ").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[GET] /projects?title=Rea", fields["label"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/projects", fields["path"])
	assert.EqualValues(t, fiber.StatusOK, fields["status"])
	assert.Contains(t, fields, "duration_ms")
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, "list_projects", fields["operation"])
}

func TestRequestLogger_LogsRejectedRequests(t *testing.T) {
	log, logs := observedLogger()
	app, _ := newTestAppWithLogger(t, log)

	status, _ := doJSON(t, app, "DELETE", "/projects/bad", nil)
	require.Equal(t, fiber.StatusBadRequest, status)

	entries := logs.FilterField(zap.String("label", "[DELETE] /projects/bad")).All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, fiber.StatusBadRequest, entries[0].ContextMap()["status"])
}

func TestRequestLogger_ReturnsDownstreamError(t *testing.T) {
	log, logs := observedLogger()
	app := fiber.New()
	app.Use(RequestLogger(log))
	boom := errors.New("boom")
	app.Get("/fail", func(c *fiber.Ctx) error { return boom })

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	entries := logs.FilterField(zap.String("label", "[GET] /fail")).All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, fiber.StatusInternalServerError, entries[0].ContextMap()["status"])
}

func TestRequestLogger_RequestID(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("echoes the caller's id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/projects", nil)
		req.Header.Set(fiber.HeaderXRequestID, "req-123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "req-123", resp.Header.Get(fiber.HeaderXRequestID))
	})

	t.Run("generates one when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/projects", nil))
		require.NoError(t, err)
		_, err = uuid.Parse(resp.Header.Get(fiber.HeaderXRequestID))
		assert.NoError(t, err)
	})
}

func TestValidateProjectID(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name   string
		param  string
		halted bool
	}{
		{"v4 uuid", id, false},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", false},
		{"short", "abc", true},
		{"urn prefix", "urn:uuid:" + id, true},
		{"no hyphens", strings.ReplaceAll(id, "-", ""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verdict Verdict
			var ctxID string
			app := fiber.New()
			app.Get("/p/:id", func(c *fiber.Ctx) error {
				verdict = ValidateProjectID(logger.NewNopLogger())(c)
				ctxID, _ = utils.GetProjectIDFromContext(c.UserContext())
				return nil
			})

			_, err := app.Test(httptest.NewRequest("GET", "/p/"+tt.param, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.halted, verdict.Halted())
			if tt.halted {
				assert.Equal(t, fiber.StatusBadRequest, verdict.status)
				assert.Empty(t, ctxID)
			} else {
				assert.Equal(t, tt.param, ctxID)
			}
		})
	}
}
