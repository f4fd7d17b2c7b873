package segment

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/text/language"

	"calevent/internal/datefmt"
	"calevent/internal/model"
)

// stampFormatter makes labels easy to assert on.
type stampFormatter struct {
	calls int
}

func (f *stampFormatter) Format(t time.Time, p datefmt.Pattern, _ language.Tag) (string, error) {
	f.calls++
	return fmt.Sprintf("%s@%s", p, t.Format("02T15:04")), nil
}

type failingFormatter struct{}

func (failingFormatter) Format(time.Time, datefmt.Pattern, language.Tag) (string, error) {
	return "", datefmt.ErrUnknownPattern
}

var (
	d1 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	d3 = time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC)
)

func timedEvent() model.Event {
	return model.Event{ID: "e1", Title: "Offsite", Start: d1, End: d3}
}

func TestBuildEdges(t *testing.T) {
	tests := []struct {
		name         string
		in           Input
		wantLead     Edge
		wantTrail    Edge
		wantHideDate bool
	}{
		{
			name:      "first segment shows start label and next arrow",
			in:        Input{Event: timedEvent(), HasNext: true, ShowDate: true, Pattern: datefmt.Hour24},
			wantLead:  Edge{Kind: EdgeLabel, Label: "hour24@02T09:00"},
			wantTrail: Edge{Kind: EdgeArrow, Glyph: ChevronRight},
		},
		{
			name:      "middle segment has arrows on both sides",
			in:        Input{Event: timedEvent(), HasPrev: true, HasNext: true, ShowDate: true, Pattern: datefmt.Hour24},
			wantLead:  Edge{Kind: EdgeArrow, Glyph: ChevronLeft},
			wantTrail: Edge{Kind: EdgeArrow, Glyph: ChevronRight},
		},
		{
			name:      "last segment shows end label",
			in:        Input{Event: timedEvent(), HasPrev: true, ShowDate: true, Pattern: datefmt.Hour24},
			wantLead:  Edge{Kind: EdgeArrow, Glyph: ChevronLeft},
			wantTrail: Edge{Kind: EdgeLabel, Label: "hour24@04T17:00"},
		},
		{
			name:      "dates not requested leaves spacers",
			in:        Input{Event: timedEvent(), Pattern: datefmt.Hour24},
			wantLead:  Edge{Kind: EdgeSpacer},
			wantTrail: Edge{Kind: EdgeSpacer},
		},
		{
			name:      "rtl mirrors arrows",
			in:        Input{Event: timedEvent(), HasPrev: true, HasNext: true, Direction: RTL},
			wantLead:  Edge{Kind: EdgeArrow, Glyph: ChevronRight},
			wantTrail: Edge{Kind: EdgeArrow, Glyph: ChevronLeft},
		},
		{
			name: "hidden boundary dates use spacers",
			in: Input{
				Event:    model.Event{Title: "Holiday", AllDay: true, Start: d1, End: d1.Add(8 * time.Hour)},
				ShowDate: true,
				Pattern:  datefmt.Hour24,
			},
			wantLead:     Edge{Kind: EdgeSpacer},
			wantTrail:    Edge{Kind: EdgeSpacer},
			wantHideDate: true,
		},
		{
			name: "arrow wins over hidden dates",
			in: Input{
				Event:    model.Event{Title: "Holiday", AllDay: true, Start: d1, End: d1.Add(8 * time.Hour)},
				HasPrev:  true,
				ShowDate: true,
			},
			wantLead:     Edge{Kind: EdgeArrow, Glyph: ChevronLeft},
			wantTrail:    Edge{Kind: EdgeSpacer},
			wantHideDate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := Build(tt.in, &stampFormatter{})
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}
			if layout.Leading != tt.wantLead {
				t.Errorf("leading = %+v, want %+v", layout.Leading, tt.wantLead)
			}
			if layout.Trailing != tt.wantTrail {
				t.Errorf("trailing = %+v, want %+v", layout.Trailing, tt.wantTrail)
			}
			if layout.HideDates != tt.wantHideDate {
				t.Errorf("HideDates = %v, want %v", layout.HideDates, tt.wantHideDate)
			}
			if layout.Title != tt.in.Event.Title {
				t.Errorf("title = %q", layout.Title)
			}
		})
	}
}

func TestBuildHasPrevNeverFormatsStart(t *testing.T) {
	for _, allDay := range []bool{true, false} {
		f := &stampFormatter{}
		ev := timedEvent()
		ev.AllDay = allDay
		layout, err := Build(Input{Event: ev, HasPrev: true, HasNext: true, ShowDate: true}, f)
		if err != nil {
			t.Fatalf("Build error: %v", err)
		}
		if layout.Leading.Kind != EdgeArrow || f.calls != 0 {
			t.Errorf("allDay=%v: leading=%v, formatter calls=%d", allDay, layout.Leading.Kind, f.calls)
		}
	}
}

func TestBuildPropagatesFormatterError(t *testing.T) {
	_, err := Build(Input{Event: timedEvent(), ShowDate: true}, failingFormatter{})
	if !errors.Is(err, datefmt.ErrUnknownPattern) {
		t.Fatalf("error = %v, want formatter error", err)
	}
}

func TestHideBoundaryDates(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		allDay bool
		want   bool
	}{
		{"all-day same date", day, day.Add(23 * time.Hour), true, true},
		{"all-day zero length", day, day, true, true},
		{"all-day spanning one full day", day, day.Add(24 * time.Hour), true, false},
		{"all-day spanning three days", day, day.AddDate(0, 0, 3), true, false},
		{"timed same date", day.Add(9 * time.Hour), day.Add(10 * time.Hour), false, false},
		{"timed multi day", day, day.AddDate(0, 0, 2), false, false},
		{"all-day crossing midnight", day.Add(23 * time.Hour), day.Add(25 * time.Hour), true, false},
		{"all-day inverted range", day.AddDate(0, 0, 2), day, true, true},
		{"timed inverted range", day.AddDate(0, 0, 2), day, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := model.Event{Start: tt.start, End: tt.end, AllDay: tt.allDay}
			if got := HideBoundaryDates(ev); got != tt.want {
				t.Errorf("HideBoundaryDates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaySpan(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	start := time.Date(2026, 3, 2, 23, 0, 0, 0, seoul)

	// 2026-03-03 14:30 UTC is 23:30 on the 3rd in Seoul.
	days, err := DaySpan(start, time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC))
	if err != nil || days != 1 {
		t.Errorf("DaySpan = %d, %v; want 1, nil", days, err)
	}

	days, err = DaySpan(start, start.Add(-time.Hour))
	if !errors.Is(err, ErrInvalidTimeRange) || days != 0 {
		t.Errorf("inverted DaySpan = %d, %v; want 0, ErrInvalidTimeRange", days, err)
	}
}

func TestArrows(t *testing.T) {
	if p, n := Arrows(LTR); p != ChevronLeft || n != ChevronRight {
		t.Errorf("ltr arrows = %s, %s", p, n)
	}
	if p, n := Arrows(RTL); p != ChevronRight || n != ChevronLeft {
		t.Errorf("rtl arrows = %s, %s", p, n)
	}
	if p, _ := Arrows(""); p != ChevronLeft {
		t.Errorf("empty direction should read as ltr")
	}
}
