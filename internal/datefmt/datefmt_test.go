package datefmt

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestLocalizedFormat(t *testing.T) {
	morning := time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		t      time.Time
		p      Pattern
		locale language.Tag
		want   string
	}{
		{"24h", morning, Hour24, language.English, "09:05"},
		{"12h am", morning, Hour12, language.English, "9:05 AM"},
		{"12h pm", evening, Hour12, language.English, "9:30 PM"},
		{"12h korean", evening, Hour12, language.Korean, "9:30 오후"},
		{"day month", morning, DayMonth, language.English, "Mon 2 Mar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Localized{}.Format(tt.t, tt.p, tt.locale)
			if err != nil {
				t.Fatalf("Format error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizedUnknownPattern(t *testing.T) {
	_, err := Localized{}.Format(time.Now(), Pattern("yyyy-MM"), language.English)
	if !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("error = %v, want ErrUnknownPattern", err)
	}
}

func TestRange(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	got, err := Range(Localized{}, start, start.Add(30*time.Minute), Hour24, language.English)
	if err != nil {
		t.Fatalf("Range error: %v", err)
	}
	if got != "09:00–09:30" {
		t.Errorf("Range = %q", got)
	}

	if _, err := Range(Localized{}, start, start, Pattern("bogus"), language.English); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("Range should propagate pattern errors, got %v", err)
	}
}

func TestHourFormatPattern(t *testing.T) {
	if HourFormat12.Pattern() != Hour12 {
		t.Errorf("12 -> %s", HourFormat12.Pattern())
	}
	if HourFormat24.Pattern() != Hour24 || HourFormat("").Pattern() != Hour24 {
		t.Errorf("24 and empty should use Hour24")
	}
}

func TestParseLocale(t *testing.T) {
	if got := ParseLocale("ko_KR"); got != language.MustParse("ko-KR") {
		t.Errorf("ParseLocale(ko_KR) = %s", got)
	}
	if got := ParseLocale(""); got != language.English {
		t.Errorf("ParseLocale(\"\") = %s", got)
	}
	if got := ParseLocale("!!"); got != language.English {
		t.Errorf("ParseLocale(!!) = %s", got)
	}
}
