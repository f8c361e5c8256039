package service

import (
	"time"

	"github.com/fairyhunter13/taqueria-landing/internal/clock"
	"github.com/fairyhunter13/taqueria-landing/internal/hours"
	"github.com/fairyhunter13/taqueria-landing/internal/model"
)

// SiteService answers the small informational requests of the landing page.
type SiteService struct {
	share    model.ShareResponse
	schedule hours.Schedule
	clock    clock.Clock
	loc      *time.Location
}

// NewSiteService creates a SiteService with a fixed share tuple and opening schedule.
func NewSiteService(share model.ShareResponse, schedule hours.Schedule, clk clock.Clock, loc *time.Location) *SiteService {
	if loc == nil {
		loc = time.UTC
	}
	return &SiteService{share: share, schedule: schedule, clock: clk, loc: loc}
}

// Share returns the tuple offered to the platform share sheet.
func (s *SiteService) Share() model.ShareResponse {
	return s.share
}

// Status reports whether the business is open right now, in its own time zone.
func (s *SiteService) Status() model.StatusResponse {
	return model.StatusResponse{
		Open:     s.schedule.IsOpen(s.clock.Now().In(s.loc)),
		OpensAt:  s.schedule.OpenHour,
		ClosesAt: s.schedule.CloseHour,
	}
}
