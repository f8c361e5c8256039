package service

import "errors"

var (
	// ErrLinkNotFound is returned when a redirect names a link that was never registered
	ErrLinkNotFound = errors.New("link not found")

	// ErrUnknownSection is returned when a redirect names a section the link was never rendered in
	ErrUnknownSection = errors.New("unknown section")

	// ErrClicksUnavailable is returned when click statistics are requested without a click log
	ErrClicksUnavailable = errors.New("click log not configured")
)
