// Package term prints an agenda to a terminal, painting each event line
// with the colours its node resolved to.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"calevent/internal/agenda"
	"calevent/internal/color"
	"calevent/internal/datefmt"
	"calevent/internal/i18n"
	"calevent/internal/render"
)

var (
	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(lipgloss.Color("#374151")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true).
			PaddingLeft(2)
	eventStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Printer renders agenda days. Width, when positive, pads every event line
// to a fixed width.
type Printer struct {
	Context  render.Context
	ShowDate bool
	Width    int
}

// Fprint writes days to w.
func (p Printer) Fprint(w io.Writer, days []agenda.Day) error {
	out, err := p.Render(days)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Render returns days as a block of terminal text.
func (p Printer) Render(days []agenda.Day) (string, error) {
	var blocks []string
	for _, day := range days {
		block, err := p.day(day)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n", nil
}

func (p Printer) day(day agenda.Day) (string, error) {
	f := p.Context.Formatter
	if f == nil {
		f = datefmt.Localized{}
	}
	header, err := f.Format(day.Date, datefmt.DayMonth, p.Context.Locale)
	if err != nil {
		return "", fmt.Errorf("term: day header: %w", err)
	}

	lines := []string{dayHeaderStyle.Render(header)}
	if len(day.Entries) == 0 {
		lines = append(lines, emptyStyle.Render(i18n.T(p.Context.Locale, "agenda.no_events")))
	}
	for _, e := range day.Entries {
		n, err := render.NewItem().Render(p.Context, render.EntryProps(e, p.ShowDate))
		if err != nil {
			return "", err
		}
		lines = append(lines, "  "+p.paint(n).Render(Line(n)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
}

// paint maps the node's resolved colours onto a lipgloss style. Values
// that are not #RRGGBB (named colours from overrides) are left out.
func (p Printer) paint(n *render.Node) lipgloss.Style {
	s := eventStyle
	if bg := n.StyleValue("background-color"); color.Valid(bg) {
		s = s.Background(termColor(bg))
	}
	if fg := n.StyleValue("color"); color.Valid(fg) {
		s = s.Foreground(termColor(fg))
	}
	if n.HasClass("event-item--disabled") {
		s = s.Strikethrough(true)
	}
	if p.Width > 0 {
		s = s.Width(p.Width)
	}
	return s
}

func termColor(hex string) lipgloss.Color {
	return lipgloss.Color("#" + strings.TrimPrefix(hex, "#"))
}

// Line flattens an event node into one line of text. Multi-day nodes read
// "leading title trailing"; single-day nodes join title, subtitle and time
// with a middle dot.
func Line(n *render.Node) string {
	if n.HasClass("event-item--multiday") {
		parts := []string{
			strings.TrimSpace(n.Find("event-item__edge--leading").TextContent()),
			n.Find("event-item__title").TextContent(),
			strings.TrimSpace(n.Find("event-item__edge--trailing").TextContent()),
		}
		return strings.TrimSpace(strings.Join(nonEmpty(parts), " "))
	}

	if n.Find("event-item__title") == nil {
		// Custom node: no known structure.
		return strings.TrimSpace(n.TextContent())
	}
	parts := []string{
		n.Find("event-item__title").TextContent(),
		n.Find("event-item__subtitle").TextContent(),
		n.Find("event-item__time").TextContent(),
	}
	return strings.Join(nonEmpty(parts), " · ")
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
