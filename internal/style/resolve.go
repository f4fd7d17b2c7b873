// Package style turns an event into the paint instructions used by the
// renderers: fill, text colour and an optional gradient.
package style

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"calevent/internal/color"
	appLog "calevent/internal/log"
	"calevent/internal/model"
)

// Gradient is a two-stop linear gradient.
type Gradient struct {
	Angle int
	From  string
	To    string
}

// CSS renders g as a linear-gradient() value.
func (g Gradient) CSS() string {
	return fmt.Sprintf("linear-gradient(%ddeg, %s 0%%, %s 100%%)", g.Angle, g.From, g.To)
}

// Decl is one CSS declaration.
type Decl struct {
	Property string
	Value    string
}

// Attributes is the final paint for one event.
type Attributes struct {
	Background string
	Foreground string
	// Gradient is nil for disabled events, events with an explicit text
	// colour, and when an override replaced the background.
	Gradient *Gradient
	// Extra holds override declarations that do not map onto a field above,
	// sorted by property.
	Extra []Decl
}

// Declarations flattens a into CSS declarations in paint order.
func (a Attributes) Declarations() []Decl {
	out := make([]Decl, 0, 3+len(a.Extra))
	if a.Background != "" {
		out = append(out, Decl{"background-color", a.Background})
	}
	if a.Foreground != "" {
		out = append(out, Decl{"color", a.Foreground})
	}
	if a.Gradient != nil {
		out = append(out, Decl{"background", a.Gradient.CSS()})
	}
	return append(out, a.Extra...)
}

// CSS joins the declarations into an inline style string.
func (a Attributes) CSS() string {
	var b strings.Builder
	for i, d := range a.Declarations() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteString(";")
	}
	return b.String()
}

// Resolver resolves event paint against a palette.
type Resolver struct {
	Palette Palette
}

// NewResolver returns a Resolver for p with zero fields defaulted.
func NewResolver(p Palette) Resolver {
	p.Normalize()
	return Resolver{Palette: p}
}

// Resolve computes the paint for ev. Precedence, lowest first: disabled or
// event/theme colours, then the gradient, then ev.Sx.
//
// If the base colour cannot be darkened the gradient degrades to a flat
// base-to-base gradient and the colour error is returned alongside the
// usable attributes.
func (r Resolver) Resolve(ev model.Event) (Attributes, error) {
	p := r.Palette
	var attrs Attributes
	var err error

	base := paintable(ev, "color", ev.Color)
	text := paintable(ev, "textColor", ev.TextColor)

	if ev.Disabled {
		attrs.Background = p.DisabledFill
		attrs.Foreground = p.DisabledText
	} else {
		attrs.Background = orDefault(base, p.Accent)
		attrs.Foreground = orDefault(text, p.Foreground)

		if ev.TextColor == "" {
			attrs.Gradient, err = r.gradient(base)
		}
	}

	applyOverrides(&attrs, ev)
	return attrs, err
}

func (r Resolver) gradient(base string) (*Gradient, error) {
	p := r.Palette
	if base == "" {
		return &Gradient{Angle: p.GradientAngle, From: p.Accent, To: p.AccentDark}, nil
	}
	dark, err := color.Adjust(base, p.GradientAmount)
	if err != nil {
		return &Gradient{Angle: p.GradientAngle, From: base, To: base}, err
	}
	return &Gradient{Angle: p.GradientAngle, From: base, To: dark}, nil
}

func applyOverrides(attrs *Attributes, ev model.Event) {
	if len(ev.Sx) == 0 {
		return
	}
	props := make([]string, 0, len(ev.Sx))
	for k := range ev.Sx {
		props = append(props, k)
	}
	slices.Sort(props)

	for _, raw := range props {
		prop := kebab(raw)
		value := strings.TrimSpace(ev.Sx[raw])
		if !safeDecl(prop, value) {
			appLog.Warn("style: dropping unsafe override", "event_id", ev.ID, "property", raw)
			continue
		}
		switch prop {
		case "color":
			attrs.Foreground = value
		case "background", "background-color":
			// The gradient is written as the background shorthand and
			// would hide a plain colour.
			attrs.Background = value
			attrs.Gradient = nil
		case "background-image":
			attrs.Gradient = nil
			attrs.Extra = append(attrs.Extra, Decl{prop, value})
		default:
			attrs.Extra = append(attrs.Extra, Decl{prop, value})
		}
	}
	slices.SortStableFunc(attrs.Extra, func(a, b Decl) int {
		return strings.Compare(a.Property, b.Property)
	})
}

// kebab converts a camelCase property name (backgroundColor) to its CSS
// form (background-color). Already kebab-cased names pass through.
func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func safeDecl(prop, value string) bool {
	if prop == "" || value == "" {
		return false
	}
	for _, r := range prop {
		if (r < 'a' || r > 'z') && r != '-' {
			return false
		}
	}
	if strings.ContainsAny(value, ";{}<>\"\\") {
		return false
	}
	lower := strings.ToLower(value)
	return !strings.Contains(lower, "url(") && !strings.Contains(lower, "expression(")
}

// paintable drops a colour value that could break out of a declaration.
func paintable(ev model.Event, field, value string) string {
	if value == "" || safeDecl("color", value) {
		return value
	}
	appLog.Warn("style: ignoring unsafe colour", "event_id", ev.ID, "field", field)
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
