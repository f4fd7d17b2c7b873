package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calevent/internal/config"
	"calevent/internal/ics"
)

const feedICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//calevent//feed test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:sync@example.com\r\n" +
	"DTSTART:20260302T090000Z\r\n" +
	"DTEND:20260302T093000Z\r\n" +
	"SUMMARY:Team sync\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:review@example.com\r\n" +
	"DTSTART:20260303T140000Z\r\n" +
	"DTEND:20260303T150000Z\r\n" +
	"SUMMARY:URGENT review\r\n" +
	"COLOR:#16a34a\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:holiday@example.com\r\n" +
	"DTSTART;VALUE=DATE:20260304\r\n" +
	"DTEND;VALUE=DATE:20260305\r\n" +
	"SUMMARY:Holiday\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:later@example.com\r\n" +
	"DTSTART:20260401T090000Z\r\n" +
	"DTEND:20260401T100000Z\r\n" +
	"SUMMARY:Out of range\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func newTestLoader(t *testing.T, showAllDay bool) *Loader {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/team.ics" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(feedICS))
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.ShowAllDay = showAllDay
	cfg.HighlightRed = []string{"urgent"}
	cfg.ICS = []config.ICSConfig{
		{ID: "team", URL: srv.URL + "/team.ics", Color: "#0ea5e9"},
		{Name: "broken", URL: srv.URL + "/missing.ics"},
		{ID: "no-url"},
	}

	l := NewLoader(cfg, ics.NewFetcher(t.TempDir(), srv.Client()))
	l.now = func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) }
	return l
}

func TestSources(t *testing.T) {
	l := newTestLoader(t, true)
	sources := l.Sources()
	if len(sources) != 2 {
		t.Fatalf("sources = %+v", sources)
	}
	if sources[0].ID != "team" || sources[1].ID != "broken" {
		t.Errorf("source ids = %q, %q", sources[0].ID, sources[1].ID)
	}
}

func TestLoad(t *testing.T) {
	l := newTestLoader(t, true)

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !snap.RangeStart.Equal(want) {
		t.Errorf("RangeStart = %v, want %v", snap.RangeStart, want)
	}
	if want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC); !snap.RangeEnd.Equal(want) {
		t.Errorf("RangeEnd = %v, want %v", snap.RangeEnd, want)
	}
	if snap.FailedSources != 1 {
		t.Errorf("FailedSources = %d, want 1", snap.FailedSources)
	}
	if len(snap.Events) != 3 {
		t.Fatalf("events = %+v", snap.Events)
	}

	colors := map[string]string{}
	for _, ev := range snap.Events {
		colors[ev.ID] = ev.Color
	}
	if colors["sync@example.com"] != "#0ea5e9" {
		t.Errorf("source colour not applied: %q", colors["sync@example.com"])
	}
	if colors["review@example.com"] != "#dc2626" {
		t.Errorf("highlight colour not applied: %q", colors["review@example.com"])
	}
	if colors["holiday@example.com"] != "#0ea5e9" {
		t.Errorf("holiday colour = %q", colors["holiday@example.com"])
	}
}

func TestLoadHidesAllDay(t *testing.T) {
	l := newTestLoader(t, false)

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	for _, ev := range snap.Events {
		if ev.AllDay {
			t.Errorf("all-day event kept: %+v", ev)
		}
	}
	if len(snap.Events) != 2 {
		t.Errorf("events = %d, want 2", len(snap.Events))
	}
}

func TestHighlighted(t *testing.T) {
	tests := []struct {
		title    string
		keywords []string
		want     bool
	}{
		{"URGENT review", []string{"urgent"}, true},
		{"여름 휴가", []string{"휴가"}, true},
		{"Team sync", []string{"urgent", " "}, false},
		{"anything", nil, false},
	}
	for _, tt := range tests {
		if got := Highlighted(tt.title, tt.keywords); got != tt.want {
			t.Errorf("Highlighted(%q, %v) = %v, want %v", tt.title, tt.keywords, got, tt.want)
		}
	}
}

func TestResolveLocation(t *testing.T) {
	if got := ResolveLocation(""); got != time.Local {
		t.Errorf("empty name = %v", got)
	}
	if got := ResolveLocation("Not/AZone"); got != time.Local {
		t.Errorf("bad name = %v", got)
	}
	if got := ResolveLocation("Asia/Seoul"); got.String() != "Asia/Seoul" {
		t.Errorf("Asia/Seoul = %v", got)
	}
}

func TestRefresher(t *testing.T) {
	r := NewRefresher(newTestLoader(t, true))

	var updates int
	r.OnUpdate = func(Snapshot) { updates++ }

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if updates != 1 || len(r.Snapshot().Events) != 3 {
		t.Errorf("updates=%d events=%d", updates, len(r.Snapshot().Events))
	}
}

func TestRefresherStart(t *testing.T) {
	r := NewRefresher(newTestLoader(t, true))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := r.Start(ctx, "not a schedule"); err == nil {
		t.Fatal("expected error for bad cron schedule")
	}

	if err := r.Start(ctx, "*/15 * * * *"); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if r.Snapshot().UpdatedAt.IsZero() {
		t.Error("Start should refresh immediately")
	}
	r.Stop()
	r.Stop()
}
