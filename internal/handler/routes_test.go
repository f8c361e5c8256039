package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/taqueria-landing/internal/model"
	"github.com/fairyhunter13/taqueria-landing/internal/validator"
)

const routesPrefix = "/taquerias-landing-page/"

func setupRoutesApp(t *testing.T) *fiber.App {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "styles.css"), []byte("body{}"), 0o644))

	pages := &mockPageSource{pages: map[string][]byte{"": []byte("<p>inicio</p>")}}
	app := fiber.New()
	RegisterRoutes(app, routesPrefix, root, Handlers{
		Health:  NewHealthHandler(nil, &mockPageCounter{n: 1}),
		Link:    NewLinkHandler(&mockLinkService{}, validator.New()),
		Site:    NewSiteHandler(&mockSiteService{status: model.StatusResponse{OpensAt: 15, ClosesAt: 2}}),
		Page:    NewPageHandler(pages),
		Limiter: NewRateLimiter(100, 100),
	})
	return app
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func TestRoutes_RootRedirectsToPrefix(t *testing.T) {
	resp, _ := get(t, setupRoutesApp(t), "/")

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, routesPrefix, resp.Header.Get(fiber.HeaderLocation))
}

func TestRoutes_RenderedPage(t *testing.T) {
	resp, body := get(t, setupRoutesApp(t), routesPrefix)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "<p>inicio</p>", body)
}

func TestRoutes_StaticAsset(t *testing.T) {
	resp, body := get(t, setupRoutesApp(t), routesPrefix+"css/styles.css")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)
}

func TestRoutes_API(t *testing.T) {
	app := setupRoutesApp(t)

	resp, body := get(t, app, routesPrefix+"api/coupon")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"code":"A000-0002-0040-2513"}`, body)

	resp, body = get(t, app, routesPrefix+"api/status")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"open":false,"opens_at":15,"closes_at":2}`, body)

	resp, _ = get(t, app, routesPrefix+"wa/"+testLinkID+"?s=hero")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, testTarget, resp.Header.Get(fiber.HeaderLocation))
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	app := setupRoutesApp(t)

	resp, _ := get(t, app, "/health")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := get(t, app, "/metrics")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")
}
