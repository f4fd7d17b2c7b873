// Package render builds the presentation node for one calendar event and
// owns its viewer state.
package render

import (
	"golang.org/x/text/language"

	"calevent/internal/config"
	"calevent/internal/datefmt"
	"calevent/internal/model"
	"calevent/internal/popover"
	"calevent/internal/segment"
	"calevent/internal/style"
)

// View is the calendar view the event is shown in.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// Context carries everything a render reads from its surroundings. It is
// passed by value and re-supplied on every render.
type Context struct {
	Direction     segment.Direction
	Locale        language.Tag
	HourFormat    datefmt.HourFormat
	View          View
	DisableViewer bool

	Formatter datefmt.Formatter
	Resolver  style.Resolver
	Drag      DragProvider
	// Custom, when set, gets the first chance to render single-day events
	// outside the month view.
	Custom CustomRenderer
	// OnEventClick is notified of every click, open viewer or not.
	OnEventClick func(model.Event)
	Popover      Popover
}

// FromConfig builds the page-wide context from the display and theme
// settings.
func FromConfig(cfg *config.Config) Context {
	return Context{
		Direction:     segment.Direction(cfg.Display.Direction),
		Locale:        datefmt.ParseLocale(cfg.Display.Locale),
		HourFormat:    datefmt.HourFormat(cfg.Display.HourFormat),
		View:          View(cfg.Display.View),
		DisableViewer: cfg.Display.DisableViewer,
		Resolver:      style.NewResolver(cfg.Theme),
		Drag:          StaticDrag{Enabled: cfg.Display.Draggable},
		Popover:       DefaultPopover{},
	}
}

func (c Context) formatter() datefmt.Formatter {
	if c.Formatter == nil {
		return datefmt.Localized{}
	}
	return c.Formatter
}

func (c Context) resolver() style.Resolver {
	if c.Resolver.Palette == (style.Palette{}) {
		return style.NewResolver(style.Palette{})
	}
	return c.Resolver
}

// DragAttrs are forwarded onto the event node untouched.
type DragAttrs map[string]string

// DragProvider supplies drag attributes and the drag permission for an
// event.
type DragProvider interface {
	Attributes(ev model.Event) (attrs DragAttrs, canDrag bool)
}

// StaticDrag marks events as draggable when Enabled, except disabled ones.
type StaticDrag struct {
	Enabled bool
}

func (d StaticDrag) Attributes(ev model.Event) (DragAttrs, bool) {
	canDrag := d.Enabled && !ev.Disabled
	if !canDrag {
		return DragAttrs{"data-drag-id": ev.ID}, false
	}
	return DragAttrs{
		"data-drag-id":     ev.ID,
		"data-drag-source": ev.SourceID,
	}, true
}

// CustomProps is what a custom renderer receives.
type CustomProps struct {
	Event   model.Event
	OnClick func(popover.Anchor)
	Drag    DragAttrs
	CanDrag bool
}

// CustomRenderer renders an event its own way or declines.
type CustomRenderer func(CustomProps) Outcome

// Outcome is either a produced node or a decline.
type Outcome struct {
	node *Node
}

// Produced wraps n. A nil n is a decline.
func Produced(n *Node) Outcome {
	return Outcome{node: n}
}

// Declined hands rendering back to the built-in layouts.
func Declined() Outcome {
	return Outcome{}
}

// Node returns the produced node and whether there was one.
func (o Outcome) Node() (*Node, bool) {
	return o.node, o.node != nil
}

// Confirmer is the part of the viewer state a popover may change.
type Confirmer interface {
	DeleteConfirmPending() bool
	SetDeleteConfirm(pending bool) error
}

// Popover renders the detail viewer for an open event. It owns its own
// layout; the item only supplies anchor and state.
type Popover interface {
	Render(ctx Context, anchor popover.Anchor, ev model.Event, trigger func(popover.Anchor), confirm Confirmer) *Node
}
