package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/taqueria-landing/internal/model"
)

// mockSiteService is a mock implementation of SiteServiceInterface.
type mockSiteService struct {
	share  model.ShareResponse
	status model.StatusResponse
}

func (m *mockSiteService) Share() model.ShareResponse   { return m.share }
func (m *mockSiteService) Status() model.StatusResponse { return m.status }

func setupSiteTestApp(mockSvc *mockSiteService) *fiber.App {
	app := fiber.New()
	h := NewSiteHandler(mockSvc)
	app.Get("/p/api/share", h.Share)
	app.Get("/p/api/status", h.Status)
	return app
}

func TestShare_Success(t *testing.T) {
	mockSvc := &mockSiteService{
		share: model.ShareResponse{Title: "Taquería", Text: "Los mejores tacos", URL: "https://example.com/p/"},
	}
	app := setupSiteTestApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/p/api/share", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body model.ShareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mockSvc.share, body)
}

func TestStatus_Success(t *testing.T) {
	mockSvc := &mockSiteService{
		status: model.StatusResponse{Open: true, OpensAt: 15, ClosesAt: 2},
	}
	app := setupSiteTestApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/p/api/status", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))
	var body model.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mockSvc.status, body)
}
