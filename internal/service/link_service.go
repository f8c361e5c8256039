package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/taqueria-landing/internal/clock"
	"github.com/fairyhunter13/taqueria-landing/internal/coupon"
	"github.com/fairyhunter13/taqueria-landing/internal/link"
	"github.com/fairyhunter13/taqueria-landing/internal/metrics"
	"github.com/fairyhunter13/taqueria-landing/internal/model"
)

// TemplateLookup resolves a registered link id to its pristine template and
// the page sections it was rendered in.
type TemplateLookup interface {
	Lookup(id string) (string, bool)
	HasSection(id, section string) bool
}

// ClickRepositoryInterface defines the interface for click log access.
type ClickRepositoryInterface interface {
	Insert(ctx context.Context, click *model.Click) error
	CountBySection(ctx context.Context) ([]model.SectionClicks, error)
}

// LinkService generates coupons and rewrites messaging links at click time.
type LinkService struct {
	links    TemplateLookup
	rewriter *link.Rewriter
	clicks   ClickRepositoryInterface
	clock    clock.Clock
	loc      *time.Location
	rnd      coupon.Source
}

// NewLinkService creates a LinkService drawing coupons from coupon.DefaultSource.
func NewLinkService(links TemplateLookup, rewriter *link.Rewriter, clicks ClickRepositoryInterface, clk clock.Clock, loc *time.Location) *LinkService {
	return NewLinkServiceWithSource(links, rewriter, clicks, clk, loc, coupon.DefaultSource)
}

// NewLinkServiceWithSource creates a LinkService with a custom randomness source.
// Primarily used for testing.
func NewLinkServiceWithSource(links TemplateLookup, rewriter *link.Rewriter, clicks ClickRepositoryInterface, clk clock.Clock, loc *time.Location, rnd coupon.Source) *LinkService {
	if loc == nil {
		loc = time.UTC
	}
	return &LinkService{
		links:    links,
		rewriter: rewriter,
		clicks:   clicks,
		clock:    clk,
		loc:      loc,
		rnd:      rnd,
	}
}

// NewCoupon returns a fresh coupon for the copy-to-clipboard widget.
func (s *LinkService) NewCoupon() string {
	return s.generate("api")
}

func (s *LinkService) generate(origin string) string {
	return s.generateAt(s.clock.Now(), origin)
}

func (s *LinkService) generateAt(now time.Time, origin string) string {
	code := coupon.Generate(now.In(s.loc), s.rnd)
	metrics.RecordCoupon(origin)
	return code
}

// Redirect rewrites the template registered under linkID with a coupon generated now
// and returns the URL the visitor should be sent to.
// Returns ErrLinkNotFound if no template is registered under linkID and
// ErrUnknownSection if the link was never rendered in section.
// Click logging is best effort and never fails the redirect.
func (s *LinkService) Redirect(ctx context.Context, linkID, section string) (string, error) {
	start := time.Now()
	status := "failure"
	defer func() {
		metrics.RecordRedirectDuration(status, time.Since(start).Seconds())
	}()

	template, ok := s.links.Lookup(linkID)
	if !ok {
		return "", ErrLinkNotFound
	}
	// Sections become metric labels and click log values; only rendered ones are accepted
	if !s.links.HasSection(linkID, section) {
		return "", ErrUnknownSection
	}

	now := s.clock.Now()
	code := s.generateAt(now, "redirect")
	target := s.rewriter.Rewrite(template, code)
	if !strings.Contains(target, code) {
		log.Debug().Str("link_id", linkID).Msg("link template has no coupon slot")
	}

	click := &model.Click{
		ID:        uuid.New(),
		LinkID:    linkID,
		Section:   section,
		ClickedAt: now,
	}
	if err := s.clicks.Insert(ctx, click); err != nil {
		log.Warn().Err(err).Str("link_id", linkID).Str("section", section).Msg("failed to record click")
	}
	metrics.RecordClick(section)

	status = "success"
	return target, nil
}

// ClicksBySection returns click totals per page section.
// Returns ErrClicksUnavailable when no click log is configured.
func (s *LinkService) ClicksBySection(ctx context.Context) ([]model.SectionClicks, error) {
	counts, err := s.clicks.CountBySection(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clicks: %w", err)
	}
	return counts, nil
}
