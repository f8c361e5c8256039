// Package schedule decides whether time-windowed promotional content is visible.
//
// An element carries a window as two attributes, data-fecha-inicio and data-fecha-fin.
// It is visible iff start <= now <= end. A window whose end precedes its start is never
// active. Elements with malformed bounds keep whatever visibility the markup gives them.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/taqueria-landing/internal/metrics"
)

const (
	// AttrStart holds the window start instant.
	AttrStart = "data-fecha-inicio"
	// AttrEnd holds the window end instant.
	AttrEnd = "data-fecha-fin"
)

var (
	// ErrInvalidInstant is returned when a bound cannot be parsed.
	ErrInvalidInstant = errors.New("invalid instant")

	// ErrMissingBounds is returned when an element lacks one of the window attributes.
	ErrMissingBounds = errors.New("missing window bounds")
)

// State is the visibility of a windowed element.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Window is a closed interval of instants.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether now lies in the window, bounds included.
func (w Window) Contains(now time.Time) bool {
	return !now.Before(w.Start) && !now.After(w.End)
}

// State maps now onto a visibility state.
func (w Window) State(now time.Time) State {
	if w.Contains(now) {
		return Visible
	}
	return Hidden
}

// Remaining is the time left until the window closes when it is active,
// or until it opens otherwise. It is negative once the window has passed.
func (w Window) Remaining(now time.Time) time.Duration {
	if w.Contains(now) {
		return w.End.Sub(now)
	}
	return w.Start.Sub(now)
}

// dateOnly is a bare calendar date, read as UTC midnight like a browser's Date does.
const dateOnly = "2006-01-02"

// layouts accepted for zone-less date-times, tried in order.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseInstant parses an ISO-8601 instant. Strings carrying a zone offset are honoured as-is;
// a bare date is UTC midnight; zone-less date-times are read as wall-clock time in loc
// (UTC when loc is nil).
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInstant, s)
}

// ParseWindow parses both bounds of a window.
func ParseWindow(start, end string, loc *time.Location) (Window, error) {
	s, err := ParseInstant(start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("parse start: %w", err)
	}
	e, err := ParseInstant(end, loc)
	if err != nil {
		return Window{}, fmt.Errorf("parse end: %w", err)
	}
	return Window{Start: s, End: e}, nil
}

// Element is a displayable node annotated with window attributes.
type Element interface {
	Attr(key string) (string, bool)
	SetVisible(visible bool)
	// Describe identifies the element in log output.
	Describe() string
}

// WindowOf reads the window attributes of e.
// ErrMissingBounds is returned when either attribute is absent.
func WindowOf(e Element, loc *time.Location) (Window, error) {
	start, okStart := e.Attr(AttrStart)
	end, okEnd := e.Attr(AttrEnd)
	if !okStart || !okEnd {
		return Window{}, ErrMissingBounds
	}
	return ParseWindow(start, end, loc)
}

// Result is the outcome of evaluating one element.
type Result struct {
	Element   Element
	State     State
	Remaining time.Duration
	Err       error
}

// Controller applies windows to elements.
type Controller struct {
	loc *time.Location
}

// NewController creates a Controller reading zone-less bounds in loc.
func NewController(loc *time.Location) *Controller {
	if loc == nil {
		loc = time.UTC
	}
	return &Controller{loc: loc}
}

// Evaluate shows or hides every windowed element according to now.
// Elements without both attributes are skipped and absent from the results.
// An element with malformed bounds is left untouched and reported with Err set;
// the remaining elements are still evaluated.
func (c *Controller) Evaluate(now time.Time, elements []Element) []Result {
	results := make([]Result, 0, len(elements))

	for _, el := range elements {
		w, err := WindowOf(el, c.loc)
		if errors.Is(err, ErrMissingBounds) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("element", el.Describe()).Msg("invalid dates on temporal element")
			metrics.RecordVisibility("invalid")
			results = append(results, Result{Element: el, Err: err})
			continue
		}

		state := w.State(now)
		el.SetVisible(state == Visible)
		metrics.RecordVisibility(state.String())

		remaining := w.Remaining(now)
		log.Debug().
			Str("element", el.Describe()).
			Str("state", state.String()).
			Dur("remaining", remaining).
			Msg("temporal content evaluated")

		results = append(results, Result{Element: el, State: state, Remaining: remaining})
	}

	return results
}
