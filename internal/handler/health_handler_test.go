package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPinger implements Pinger for testing health checks
type mockPinger struct {
	pingErr error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.pingErr
}

// mockPageCounter implements PageCounter
type mockPageCounter struct {
	n int
}

func (m *mockPageCounter) Len() int { return m.n }

func checkHealth(t *testing.T, h *HealthHandler) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/health", h.Check)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthHandler_Check_Healthy(t *testing.T) {
	status, body := checkHealth(t, NewHealthHandler(&mockPinger{}, &mockPageCounter{n: 1}))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.Contains(t, body, `"database":"connected"`)
}

func TestHealthHandler_Check_DatabaseDisabled(t *testing.T) {
	status, body := checkHealth(t, NewHealthHandler(nil, &mockPageCounter{n: 2}))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.Contains(t, body, `"database":"disabled"`)
}

func TestHealthHandler_Check_Unhealthy(t *testing.T) {
	status, body := checkHealth(t, NewHealthHandler(&mockPinger{pingErr: errors.New("connection refused")}, &mockPageCounter{n: 1}))

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body, `"status":"unhealthy"`)
	assert.Contains(t, body, `"error":"database connection failed"`)
}

func TestHealthHandler_Check_NoPages(t *testing.T) {
	status, body := checkHealth(t, NewHealthHandler(nil, &mockPageCounter{}))

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body, `"error":"no pages rendered"`)
}
