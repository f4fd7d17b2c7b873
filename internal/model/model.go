package model

import (
	"fmt"
	"maps"
	"time"
)

// Event is a single concrete calendar entry as handed to the renderer.
// Recurring ICS events are expanded into one Event per occurrence before
// they reach this type; the renderer never mutates it.
type Event struct {
	// ID is stable across renders and refreshes.
	ID string
	// SourceID is the configured ICS source this event came from.
	SourceID string

	Title    string
	Subtitle string

	Start time.Time
	End   time.Time

	// AllDay only affects boundary-label suppression in multi-day rendering.
	AllDay bool

	// Color is the base fill as #RRGGBB. Empty means the theme accent.
	Color string
	// TextColor, when set, also disables the gradient fill.
	TextColor string

	// Disabled forces the neutral palette and turns off drag affordances.
	Disabled bool

	// Sx holds CSS property overrides applied after everything else.
	Sx map[string]string
}

// Key identifies a rendered event node. Two occurrences of the same
// recurring event differ by their start time.
func (e Event) Key() string {
	return fmt.Sprintf("%d_%d_%s", e.Start.UnixMilli(), e.End.UnixMilli(), e.ID)
}

// Equal reports whether two events carry the same data. Timestamps are
// compared as instants, so the same moment in different zones is equal.
func (e Event) Equal(o Event) bool {
	return e.ID == o.ID &&
		e.SourceID == o.SourceID &&
		e.Title == o.Title &&
		e.Subtitle == o.Subtitle &&
		e.Start.Equal(o.Start) &&
		e.End.Equal(o.End) &&
		e.AllDay == o.AllDay &&
		e.Color == o.Color &&
		e.TextColor == o.TextColor &&
		e.Disabled == o.Disabled &&
		maps.Equal(e.Sx, o.Sx)
}
