package render

import (
	"calevent/internal/datefmt"
	"calevent/internal/i18n"
	"calevent/internal/model"
	"calevent/internal/popover"
)

// DefaultPopover is a plain detail card: title, time range, subtitle and
// close/delete actions. Actions are exposed as data-action attributes for
// the page script to post back.
type DefaultPopover struct{}

func (DefaultPopover) Render(ctx Context, anchor popover.Anchor, ev model.Event, _ func(popover.Anchor), confirm Confirmer) *Node {
	card := &Node{
		Tag:   "div",
		Class: "event-viewer",
		Attrs: map[string]string{
			"role":        "dialog",
			"data-anchor": string(anchor),
			"data-key":    ev.Key(),
		},
	}

	card.Children = append(card.Children, text("h3", "event-viewer__title", ev.Title))

	when, err := datefmt.Range(ctx.formatter(), ev.Start, ev.End, ctx.HourFormat.Pattern(), ctx.Locale)
	if ev.AllDay {
		when = i18n.T(ctx.Locale, "event.all_day")
	} else if err != nil {
		when = ""
	}
	if when != "" {
		card.Children = append(card.Children, text("p", "event-viewer__time", when))
	}
	if ev.Subtitle != "" {
		card.Children = append(card.Children, text("p", "event-viewer__subtitle", ev.Subtitle))
	}

	actions := el("div", "event-viewer__actions", button(ctx, "close", "viewer.close"))
	if !ev.Disabled {
		if confirm != nil && confirm.DeleteConfirmPending() {
			actions.Children = append(actions.Children,
				text("span", "event-viewer__prompt", i18n.T(ctx.Locale, "viewer.confirm_delete")),
				button(ctx, "delete", "viewer.confirm"))
		} else {
			actions.Children = append(actions.Children, button(ctx, "confirm-delete", "viewer.delete"))
		}
	}
	card.Children = append(card.Children, actions)
	return card
}

func button(ctx Context, action, labelID string) *Node {
	return &Node{
		Tag:   "button",
		Class: "event-viewer__button",
		Text:  i18n.T(ctx.Locale, labelID),
		Attrs: map[string]string{
			"type":        "button",
			"data-action": action,
		},
	}
}
