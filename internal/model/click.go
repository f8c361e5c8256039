package model

import (
	"time"

	"github.com/google/uuid"
)

// Click is one visit through a messaging link redirect.
// The coupon handed out with the click is deliberately not part of the record.
type Click struct {
	ID        uuid.UUID `json:"id"`
	LinkID    string    `json:"link_id"`
	Section   string    `json:"section"`
	ClickedAt time.Time `json:"clicked_at"`
}

// SectionClicks is the click count of one page section.
type SectionClicks struct {
	Section string `json:"section"`
	Clicks  int64  `json:"clicks"`
}

// CouponResponse is the API response DTO for GET {prefix}api/coupon
type CouponResponse struct {
	Code string `json:"code"`
}

// ShareResponse is the tuple handed to the platform share sheet
type ShareResponse struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// StatusResponse reports whether the business is currently open
type StatusResponse struct {
	Open     bool `json:"open"`
	OpensAt  int  `json:"opens_at"`
	ClosesAt int  `json:"closes_at"`
}

// RedirectRequest carries the path and query parameters of a messaging link click
type RedirectRequest struct {
	LinkID  string `validate:"required,uuid"`
	Section string `validate:"required,classlist,max=100"`
}
