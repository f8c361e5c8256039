package handler

import (
	"github.com/gofiber/fiber/v2"
)

// PageSource returns processed pages by request path.
type PageSource interface {
	Page(reqPath string) ([]byte, bool)
}

// PageHandler serves the periodically re-rendered HTML pages.
type PageHandler struct {
	pages PageSource
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(pages PageSource) *PageHandler {
	return &PageHandler{pages: pages}
}

// Serve writes the rendered page for the wildcard path, or passes to the next
// handler so static assets can be served.
func (h *PageHandler) Serve(c *fiber.Ctx) error {
	b, ok := h.pages.Page(c.Params("*"))
	if !ok {
		return c.Next()
	}
	// Visibility changes over time; the page must be revalidated.
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(b)
}
