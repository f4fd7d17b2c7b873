package render

import (
	"maps"
	"strconv"

	"calevent/internal/datefmt"
	"calevent/internal/i18n"
	"calevent/internal/segment"
	"calevent/internal/style"
)

func frame(ctx Context, p Props, attrs style.Attributes, hover string) *Node {
	class := "event-item"
	if p.Multiday {
		class += " event-item--multiday"
	}
	if p.Event.Disabled {
		class += " event-item--disabled cursor-not-allowed"
	} else {
		class += " cursor-pointer " + hover
	}

	n := &Node{
		Tag:   "div",
		Key:   p.Event.Key(),
		Class: class,
		Style: attrs.Declarations(),
		Attrs: map[string]string{
			"data-event-id": p.Event.ID,
		},
	}
	if !ctx.DisableViewer {
		n.Attrs["aria-haspopup"] = "dialog"
	}
	return n
}

func body(class string, drag DragAttrs, canDrag bool, children ...*Node) *Node {
	n := el("div", class, children...)
	n.Attrs = make(map[string]string, len(drag)+1)
	maps.Copy(n.Attrs, drag)
	n.Attrs["draggable"] = strconv.FormatBool(canDrag)
	return n
}

func singleDay(ctx Context, p Props, attrs style.Attributes, drag DragAttrs, canDrag bool) (*Node, error) {
	ev := p.Event

	content := el("div", "event-item__content",
		text("p", "event-item__title", ev.Title))
	if ev.Subtitle != "" {
		content.Children = append(content.Children, text("p", "event-item__subtitle", ev.Subtitle))
	}
	if p.ShowDate {
		span, err := datefmt.Range(ctx.formatter(), ev.Start, ev.End, ctx.HourFormat.Pattern(), ctx.Locale)
		if err != nil {
			return nil, err
		}
		content.Children = append(content.Children, text("p", "event-item__time", span))
	}

	row := el("div", "event-item__row", content)
	if canDrag && !ev.Disabled {
		row.Children = append(row.Children, el("div", "event-item__handle"))
	}

	n := frame(ctx, p, attrs, "hover:shadow-lg")
	n.Children = []*Node{body("event-item__body", drag, canDrag, row)}
	return n, nil
}

func multiDay(ctx Context, p Props, attrs style.Attributes, drag DragAttrs, canDrag bool) (*Node, error) {
	layout, err := segment.Build(segment.Input{
		Event:     p.Event,
		HasPrev:   p.HasPrev,
		HasNext:   p.HasNext,
		ShowDate:  p.ShowDate,
		Direction: ctx.Direction,
		Pattern:   ctx.HourFormat.Pattern(),
		Locale:    ctx.Locale,
	}, ctx.formatter())
	if err != nil {
		return nil, err
	}

	row := el("div", "event-item__row",
		edgeNode(ctx, layout.Leading, "leading", "event.continues_before"),
		el("div", "event-item__center", text("p", "event-item__title event-item__title--center", layout.Title)),
		edgeNode(ctx, layout.Trailing, "trailing", "event.continues_after"),
	)

	n := frame(ctx, p, attrs, "hover:shadow-md")
	n.Children = []*Node{body("event-item__body", drag, canDrag, row)}
	return n, nil
}

func edgeNode(ctx Context, e segment.Edge, side, titleID string) *Node {
	slot := el("div", "event-item__edge event-item__edge--"+side)
	switch e.Kind {
	case segment.EdgeArrow:
		slot.Children = append(slot.Children, &Node{
			Tag:   "span",
			Class: "event-item__arrow",
			Text:  glyphText(e.Glyph),
			Attrs: map[string]string{
				"data-glyph": string(e.Glyph),
				"title":      i18n.T(ctx.Locale, titleID),
			},
		})
	case segment.EdgeLabel:
		slot.Children = append(slot.Children, text("span", "event-item__date", e.Label))
	default:
		slot.Children = append(slot.Children, el("span", "event-item__spacer"))
	}
	return slot
}

func glyphText(g segment.Glyph) string {
	if g == segment.ChevronLeft {
		return "‹"
	}
	return "›"
}
