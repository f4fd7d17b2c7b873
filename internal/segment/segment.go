// Package segment lays out one cell of a multi-day event: what goes on the
// leading and trailing edge around the centred title.
package segment

import (
	"errors"
	"time"

	"golang.org/x/text/language"

	"calevent/internal/datefmt"
	appLog "calevent/internal/log"
	"calevent/internal/model"
)

// ErrInvalidTimeRange marks an event whose end precedes its start.
var ErrInvalidTimeRange = errors.New("event ends before it starts")

// Direction is the reading direction of the surrounding view.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Glyph names an arrow icon.
type Glyph string

const (
	ChevronLeft  Glyph = "chevron-left"
	ChevronRight Glyph = "chevron-right"
)

// Arrows returns the glyphs meaning "continues from before" and
// "continues after" for dir.
func Arrows(dir Direction) (prev, next Glyph) {
	if dir == RTL {
		return ChevronRight, ChevronLeft
	}
	return ChevronLeft, ChevronRight
}

// EdgeKind says what occupies an edge slot.
type EdgeKind int

const (
	// EdgeSpacer is an empty fixed-width slot that keeps titles aligned
	// across rows.
	EdgeSpacer EdgeKind = iota
	EdgeArrow
	EdgeLabel
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeArrow:
		return "arrow"
	case EdgeLabel:
		return "label"
	default:
		return "spacer"
	}
}

// Edge is the content of one edge slot.
type Edge struct {
	Kind  EdgeKind
	Glyph Glyph
	Label string
}

// Layout is a fully decided segment.
type Layout struct {
	Leading  Edge
	Title    string
	Trailing Edge
	// HideDates is true when boundary labels are suppressed on both sides.
	HideDates bool
}

// Input describes the segment being rendered. The caller never sets both
// HasPrev and HasNext for an event that fits in a single cell.
type Input struct {
	Event     model.Event
	HasPrev   bool
	HasNext   bool
	ShowDate  bool
	Direction Direction
	Pattern   datefmt.Pattern
	Locale    language.Tag
}

// Build decides both edges of the segment. Formatter errors are returned
// unchanged.
func Build(in Input, f datefmt.Formatter) (Layout, error) {
	prev, next := Arrows(in.Direction)
	hide := HideBoundaryDates(in.Event)

	lead, err := edge(in.HasPrev, prev, in.Event.Start, in, hide, f)
	if err != nil {
		return Layout{}, err
	}
	trail, err := edge(in.HasNext, next, in.Event.End, in, hide, f)
	if err != nil {
		return Layout{}, err
	}

	return Layout{
		Leading:   lead,
		Title:     in.Event.Title,
		Trailing:  trail,
		HideDates: hide,
	}, nil
}

func edge(continues bool, glyph Glyph, at time.Time, in Input, hide bool, f datefmt.Formatter) (Edge, error) {
	switch {
	case continues:
		return Edge{Kind: EdgeArrow, Glyph: glyph}, nil
	case in.ShowDate && !hide:
		label, err := f.Format(at, in.Pattern, in.Locale)
		if err != nil {
			return Edge{}, err
		}
		return Edge{Kind: EdgeLabel, Label: label}, nil
	default:
		return Edge{Kind: EdgeSpacer}, nil
	}
}

// HideBoundaryDates reports whether an all-day event stays within a single
// calendar day once time of day is discarded.
func HideBoundaryDates(ev model.Event) bool {
	if !ev.AllDay {
		return false
	}
	days, err := DaySpan(ev.Start, ev.End)
	if err != nil {
		appLog.Debug("segment: treating inverted range as zero days", "event_id", ev.ID,
			"start", ev.Start.Format(time.RFC3339), "end", ev.End.Format(time.RFC3339))
	}
	return days <= 0
}

// DaySpan counts calendar days between the dates of start and end, both
// taken in start's location. An end before start yields 0 and
// ErrInvalidTimeRange.
func DaySpan(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidTimeRange
	}
	end = end.In(start.Location())
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24), nil
}
