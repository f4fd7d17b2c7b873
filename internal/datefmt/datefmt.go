// Package datefmt formats event timestamps for display.
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"calevent/internal/i18n"
)

// ErrUnknownPattern is returned for a pattern the formatter cannot render.
var ErrUnknownPattern = errors.New("unknown date pattern")

// Pattern names a display format.
type Pattern string

const (
	// Hour12 renders "3:04 PM" with a localized day-period marker.
	Hour12 Pattern = "hour12"
	// Hour24 renders "15:04".
	Hour24 Pattern = "hour24"
	// DayMonth renders "Mon 2 Jan".
	DayMonth Pattern = "day-month"
)

// HourFormat is the configured clock style.
type HourFormat string

const (
	HourFormat12 HourFormat = "12"
	HourFormat24 HourFormat = "24"
)

// Pattern returns the time-of-day pattern for h. Unknown values use the
// 24 hour clock.
func (h HourFormat) Pattern() Pattern {
	if h == HourFormat12 {
		return Hour12
	}
	return Hour24
}

// Formatter renders a timestamp with a pattern for a locale. It must be
// deterministic for fixed inputs.
type Formatter interface {
	Format(t time.Time, p Pattern, locale language.Tag) (string, error)
}

// Localized is the default Formatter. Clock digits are the same for every
// supported language; only the day-period marker is translated.
type Localized struct{}

func (Localized) Format(t time.Time, p Pattern, locale language.Tag) (string, error) {
	switch p {
	case Hour24:
		return t.Format("15:04"), nil
	case Hour12:
		marker := i18n.T(locale, "time.am")
		if t.Hour() >= 12 {
			marker = i18n.T(locale, "time.pm")
		}
		return t.Format("3:04") + " " + marker, nil
	case DayMonth:
		return t.Format("Mon 2 Jan"), nil
	default:
		return "", fmt.Errorf("datefmt: %q: %w", string(p), ErrUnknownPattern)
	}
}

// Range formats start and end with the same pattern joined by an en dash.
func Range(f Formatter, start, end time.Time, p Pattern, locale language.Tag) (string, error) {
	from, err := f.Format(start, p, locale)
	if err != nil {
		return "", err
	}
	to, err := f.Format(end, p, locale)
	if err != nil {
		return "", err
	}
	return from + "–" + to, nil
}

// ParseLocale parses a BCP 47 tag, falling back to English for empty or
// malformed input.
func ParseLocale(s string) language.Tag {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
