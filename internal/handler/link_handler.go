package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/taqueria-landing/internal/model"
	"github.com/fairyhunter13/taqueria-landing/internal/page"
	"github.com/fairyhunter13/taqueria-landing/internal/service"
)

// LinkServiceInterface defines the interface for click-time link business logic.
type LinkServiceInterface interface {
	Redirect(ctx context.Context, linkID, section string) (string, error)
	NewCoupon() string
	ClicksBySection(ctx context.Context) ([]model.SectionClicks, error)
}

// LinkHandler handles messaging link redirects and coupon requests.
type LinkHandler struct {
	service   LinkServiceInterface
	validator *validator.Validate
}

// NewLinkHandler creates a new LinkHandler with the given service and validator.
func NewLinkHandler(svc LinkServiceInterface, v *validator.Validate) *LinkHandler {
	return &LinkHandler{service: svc, validator: v}
}

// formatRedirectValidationError converts validator errors to client-facing messages.
func formatRedirectValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Field() {
			case "LinkID":
				return "invalid request: link id is invalid"
			case "Section":
				if fe.Tag() == "max" {
					return "invalid request: section exceeds maximum length of 100"
				}
				return "invalid request: section is invalid"
			default:
				return "invalid request: " + fe.Field() + " is invalid"
			}
		}
	}
	return "invalid request"
}

// Redirect handles GET {prefix}wa/:id requests. A coupon is generated for this click,
// spliced into the registered link template, and the visitor is sent on with a 302.
func (h *LinkHandler) Redirect(c *fiber.Ctx) error {
	// Params and query values alias the request buffer; copy what outlives the handler.
	req := model.RedirectRequest{
		LinkID:  utils.CopyString(c.Params("id")),
		Section: utils.CopyString(c.Query("s", page.UnknownSection)),
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatRedirectValidationError(err)})
	}

	target, err := h.service.Redirect(c.UserContext(), req.LinkID, req.Section)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "link not found"})
		}
		if errors.Is(err, service.ErrUnknownSection) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: section is invalid"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("link_id", req.LinkID).
			Msg("failed to rewrite link")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("link_id", req.LinkID).
		Str("section", req.Section).
		Msg("messaging link clicked")

	// Every click must carry its own coupon
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Redirect(target, fiber.StatusFound)
}

// Coupon handles GET {prefix}api/coupon requests for the copy-to-clipboard widget.
func (h *LinkHandler) Coupon(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(model.CouponResponse{Code: h.service.NewCoupon()})
}

// Clicks handles GET {prefix}api/clicks requests with click totals per section.
func (h *LinkHandler) Clicks(c *fiber.Ctx) error {
	counts, err := h.service.ClicksBySection(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrClicksUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "click log not configured"})
		}
		log.Error().Err(err).Msg("failed to count clicks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(counts)
}
