package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Health  *HealthHandler
	Link    *LinkHandler
	Site    *SiteHandler
	Page    *PageHandler
	Limiter *RateLimiter
}

// RegisterRoutes mounts the landing site under prefix. Rendered pages win over
// static files from staticRoot; everything else under prefix is served as-is.
func RegisterRoutes(app *fiber.App, prefix, staticRoot string, h Handlers) {
	base := strings.TrimSuffix(prefix, "/")

	app.Get("/health", h.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if base != "" {
		app.Get("/", func(c *fiber.Ctx) error {
			return c.Redirect(prefix, fiber.StatusFound)
		})
	}

	// Click and coupon endpoints mint codes, so they are limited per client
	app.Get(base+"/wa/:id", h.Limiter.Handler(), h.Link.Redirect)
	app.Get(base+"/api/coupon", h.Limiter.Handler(), h.Link.Coupon)
	app.Get(base+"/api/clicks", h.Link.Clicks)
	app.Get(base+"/api/share", h.Site.Share)
	app.Get(base+"/api/status", h.Site.Status)

	app.Get(base+"/*", h.Page.Serve)
	app.Static(base+"/", staticRoot)
}
