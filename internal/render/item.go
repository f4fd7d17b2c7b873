package render

import (
	"maps"
	"reflect"

	"calevent/internal/agenda"
	"calevent/internal/datefmt"
	appLog "calevent/internal/log"
	"calevent/internal/model"
	"calevent/internal/popover"
	"calevent/internal/segment"
)

// Props are the per-cell inputs of an event node.
type Props struct {
	Event model.Event
	// Multiday selects the segment layout used when the event spans
	// several cells.
	Multiday bool
	HasPrev  bool
	HasNext  bool
	ShowDate bool
}

// NewProps returns single-day props with the date shown.
func NewProps(ev model.Event) Props {
	return Props{Event: ev, ShowDate: true}
}

// EntryProps converts an agenda cell into props. All-day events never
// show clock times; their edges carry arrows or spacers only.
func EntryProps(e agenda.Entry, showDate bool) Props {
	return Props{
		Event:    e.Event,
		Multiday: e.Multiday,
		HasPrev:  e.HasPrev,
		HasNext:  e.HasNext,
		ShowDate: showDate && !e.Event.AllDay,
	}
}

// Item is one rendered event: its cached node and its viewer state.
// An Item is not safe for concurrent use.
type Item struct {
	viewer popover.Controller

	cached *Node
	key    memoKey
	primed bool

	builds int
}

func NewItem() *Item {
	return &Item{}
}

// Render returns the node for p, reusing the previous node when nothing in
// the memo key changed. Colour problems degrade the paint and are logged;
// formatter errors are returned.
func (it *Item) Render(ctx Context, p Props) (*Node, error) {
	drag, canDrag := DragAttrs(nil), false
	if ctx.Drag != nil {
		drag, canDrag = ctx.Drag.Attributes(p.Event)
	}

	key := it.keyFor(ctx, p, drag, canDrag)
	if it.primed && it.key.equal(key) {
		return it.cached, nil
	}

	n, err := it.build(ctx, p, drag, canDrag)
	if err != nil {
		return nil, err
	}
	it.builds++
	it.cached, it.key, it.primed = n, key, true
	return n, nil
}

func (it *Item) build(ctx Context, p Props, drag DragAttrs, canDrag bool) (*Node, error) {
	ev := p.Event

	if ctx.Custom != nil && !p.Multiday && ctx.View != ViewMonth {
		out := ctx.Custom(CustomProps{
			Event:   ev,
			OnClick: it.Trigger,
			Drag:    drag,
			CanDrag: canDrag,
		})
		if custom, ok := out.Node(); ok {
			return &Node{
				Tag:      "div",
				Key:      ev.Key(),
				Class:    "event-item-custom",
				Children: []*Node{custom},
			}, nil
		}
	}

	attrs, err := ctx.resolver().Resolve(ev)
	if err != nil {
		appLog.Error("render: event colour degraded", err, "event_id", ev.ID, "color", ev.Color)
	}

	if !p.Multiday {
		return singleDay(ctx, p, attrs, drag, canDrag)
	}
	return multiDay(ctx, p, attrs, drag, canDrag)
}

// Builds counts how many times the node was actually rebuilt.
func (it *Item) Builds() int {
	return it.builds
}

// Trigger is the viewer callback handed to custom renderers and popovers.
func (it *Item) Trigger(a popover.Anchor) {
	it.viewer.Trigger(a)
}

// Click handles a click on the event node: the viewer transition first,
// then the global click notification.
func (it *Item) Click(ctx Context, ev model.Event, a popover.Anchor) {
	if !ctx.DisableViewer {
		it.Trigger(a)
	}
	if ctx.OnEventClick != nil {
		ctx.OnEventClick(ev)
	}
}

// Viewer exposes the viewer state.
func (it *Item) Viewer() *popover.Controller {
	return &it.viewer
}

// Popover renders the viewer for ev when it is open and a popover is
// configured.
func (it *Item) Popover(ctx Context, ev model.Event) *Node {
	if ctx.Popover == nil || !it.viewer.IsOpen() {
		return nil
	}
	return ctx.Popover.Render(ctx, it.viewer.Anchor(), ev, it.Trigger, &it.viewer)
}

// memoKey lists every input the node depends on. Functions are compared by
// code pointer.
type memoKey struct {
	custom        uintptr
	multiday      bool
	view          View
	event         model.Event
	showDate      bool
	hourFormat    datefmt.HourFormat
	locale        string
	disableViewer bool
	drag          DragAttrs
	canDrag       bool
	trigger       *Item
	hasPrev       bool
	hasNext       bool
	prevGlyph     segment.Glyph
	nextGlyph     segment.Glyph
	hideDates     bool
	onClick       uintptr
}

func (it *Item) keyFor(ctx Context, p Props, drag DragAttrs, canDrag bool) memoKey {
	prev, next := segment.Arrows(ctx.Direction)
	return memoKey{
		custom:        funcID(ctx.Custom),
		multiday:      p.Multiday,
		view:          ctx.View,
		event:         p.Event,
		showDate:      p.ShowDate,
		hourFormat:    ctx.HourFormat,
		locale:        ctx.Locale.String(),
		disableViewer: ctx.DisableViewer,
		drag:          drag,
		canDrag:       canDrag,
		trigger:       it,
		hasPrev:       p.HasPrev,
		hasNext:       p.HasNext,
		prevGlyph:     prev,
		nextGlyph:     next,
		hideDates:     segment.HideBoundaryDates(p.Event),
		onClick:       funcID(ctx.OnEventClick),
	}
}

func (k memoKey) equal(o memoKey) bool {
	return k.custom == o.custom &&
		k.multiday == o.multiday &&
		k.view == o.view &&
		k.event.Equal(o.event) &&
		k.showDate == o.showDate &&
		k.hourFormat == o.hourFormat &&
		k.locale == o.locale &&
		k.disableViewer == o.disableViewer &&
		maps.Equal(k.drag, o.drag) &&
		k.canDrag == o.canDrag &&
		k.trigger == o.trigger &&
		k.hasPrev == o.hasPrev &&
		k.hasNext == o.hasNext &&
		k.prevGlyph == o.prevGlyph &&
		k.nextGlyph == o.nextGlyph &&
		k.hideDates == o.hideDates &&
		k.onClick == o.onClick
}

func funcID(f any) uintptr {
	v := reflect.ValueOf(f)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return 0
	}
	return v.Pointer()
}
