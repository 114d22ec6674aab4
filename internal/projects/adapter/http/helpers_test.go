package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"projects-api/internal/projects/adapter/persistence/memory"
	"projects-api/internal/projects/config"
	"projects-api/internal/projects/usecase"
	"projects-api/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// newTestApp builds the full middleware stack over a fresh store.
func newTestApp(t *testing.T) (*fiber.App, *memory.ProjectStore) {
	t.Helper()
	return newTestAppWithLogger(t, logger.NewNopLogger())
}

func newTestAppWithLogger(t *testing.T, log logger.Logger) (*fiber.App, *memory.ProjectStore) {
	t.Helper()
	store := memory.NewProjectStore()
	uc := usecase.NewProjectUsecase(store, nil, log)
	app := NewFiberApp(config.ServerConfig{}, log)
	NewProjectHandler(uc, log).RegisterRoutes(app, "/projects")
	return app, store
}

// doJSON sends a request with an optional JSON body and returns status and raw body.
func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", string(raw))
	return v
}

func decodeBody(resp *http.Response, v interface{}) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func serverConfigForTest() config.ServerConfig {
	return config.ServerConfig{Host: "127.0.0.1", Port: "0"}
}
