package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/taqueria-landing/internal/model"
)

// SiteServiceInterface defines the interface for informational site requests.
type SiteServiceInterface interface {
	Share() model.ShareResponse
	Status() model.StatusResponse
}

// SiteHandler serves the share tuple and opening status.
type SiteHandler struct {
	service SiteServiceInterface
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(svc SiteServiceInterface) *SiteHandler {
	return &SiteHandler{service: svc}
}

// Share handles GET {prefix}api/share requests.
func (h *SiteHandler) Share(c *fiber.Ctx) error {
	return c.JSON(h.service.Share())
}

// Status handles GET {prefix}api/status requests.
func (h *SiteHandler) Status(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(h.service.Status())
}
