// Package feed turns the configured ICS subscriptions into a snapshot of
// display-ready events and keeps that snapshot fresh on a cron schedule.
package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"calevent/internal/agenda"
	"calevent/internal/config"
	"calevent/internal/ics"
	appLog "calevent/internal/log"
	"calevent/internal/model"
)

// Snapshot is one fetch/parse/expand pass over every configured source.
type Snapshot struct {
	Events     []model.Event
	Truncated  []string
	RangeStart time.Time
	RangeEnd   time.Time
	Location   *time.Location
	UpdatedAt  time.Time
	// FailedSources counts sources that produced no body at all.
	FailedSources int
}

// Loader runs the ICS pipeline for a config.
type Loader struct {
	cfg     *config.Config
	fetcher *ics.Fetcher
	now     func() time.Time
}

// NewLoader creates a Loader. A nil fetcher caches under cfg.CacheDir.
func NewLoader(cfg *config.Config, fetcher *ics.Fetcher) *Loader {
	if fetcher == nil {
		fetcher = ics.NewFetcher(cfg.CacheDir, nil)
	}
	return &Loader{cfg: cfg, fetcher: fetcher, now: time.Now}
}

// Sources builds ICS sources from config. Entries without a URL are
// skipped; a missing ID falls back to the name, then the URL.
func (l *Loader) Sources() []ics.Source {
	sources := make([]ics.Source, 0, len(l.cfg.ICS))
	for _, csrc := range l.cfg.ICS {
		if csrc.URL == "" {
			continue
		}
		sources = append(sources, ics.Source{ID: sourceID(csrc), URL: csrc.URL})
	}
	return sources
}

func sourceID(c config.ICSConfig) string {
	switch {
	case c.ID != "":
		return c.ID
	case c.Name != "":
		return c.Name
	default:
		return c.URL
	}
}

// Load fetches, parses and expands every source over
// [today-BackfillDays, today+HorizonDays] in the configured timezone,
// widened to the configured view's window. Sources that fail are logged
// and left out; Load only errors when expansion itself fails.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	loc := ResolveLocation(l.cfg.Timezone)
	now := l.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	snap := Snapshot{
		RangeStart: today.AddDate(0, 0, -l.cfg.BackfillDays),
		RangeEnd:   today.AddDate(0, 0, l.cfg.HorizonDays),
		Location:   loc,
		Events:     []model.Event{},
	}
	// The configured view must always be fully covered.
	viewStart, viewDays := agenda.Window(now, l.cfg.Display.View, l.cfg.WeekStart, loc)
	if viewStart.Before(snap.RangeStart) {
		snap.RangeStart = viewStart
	}
	if viewEnd := viewStart.AddDate(0, 0, viewDays); viewEnd.After(snap.RangeEnd) {
		snap.RangeEnd = viewEnd
	}

	sources := l.Sources()
	if len(sources) == 0 {
		snap.UpdatedAt = l.now()
		return snap, nil
	}

	results, fetchErrs := l.fetcher.FetchAll(ctx, sources)
	snap.FailedSources = len(fetchErrs)
	if len(fetchErrs) > 0 {
		appLog.Error("feed: one or more ICS fetches failed", errors.Join(fetchErrs...), "error_count", len(fetchErrs))
	}

	parsed := make([]ics.ParsedEvent, 0)
	for _, res := range results {
		events, err := ics.ParseICS(res.Source, res.Body)
		if err != nil {
			appLog.Error("feed: parse failed for source", err, "id", res.Source.ID)
			continue
		}
		parsed = append(parsed, events...)
	}

	expanded, err := ics.ExpandOccurrences(parsed, ics.ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      snap.RangeStart,
		RangeEnd:        snap.RangeEnd,
	})
	if err != nil {
		return Snapshot{}, err
	}

	snap.Events = l.decorate(expanded.Events)
	snap.Truncated = expanded.TruncatedEvents
	snap.UpdatedAt = l.now()

	appLog.Info("feed loaded",
		"sources", len(sources),
		"events", len(snap.Events),
		"range_start", snap.RangeStart.Format(time.RFC3339),
		"range_end", snap.RangeEnd.Format(time.RFC3339),
	)
	return snap, nil
}

// decorate applies config-level presentation: the all-day filter, the
// per-source default colour and keyword highlighting.
func (l *Loader) decorate(events []model.Event) []model.Event {
	colors := make(map[string]string, len(l.cfg.ICS))
	for _, c := range l.cfg.ICS {
		if c.Color != "" {
			colors[sourceID(c)] = c.Color
		}
	}

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.AllDay && !l.cfg.ShowAllDay {
			continue
		}
		if ev.Color == "" {
			ev.Color = colors[ev.SourceID]
		}
		if Highlighted(ev.Title, l.cfg.HighlightRed) {
			ev.Color = l.cfg.HighlightColor
		}
		out = append(out, ev)
	}
	return out
}

// Highlighted reports whether title contains any of the keywords,
// ignoring case.
func Highlighted(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// ResolveLocation loads an IANA zone, falling back to time.Local.
func ResolveLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

// Refresher holds the latest Snapshot and reloads it on a cron schedule.
type Refresher struct {
	loader *Loader

	mu   sync.RWMutex
	snap Snapshot

	cron *cron.Cron
	// OnUpdate, if set, is called after every successful refresh.
	OnUpdate func(Snapshot)
}

// NewRefresher creates a Refresher around loader.
func NewRefresher(loader *Loader) *Refresher {
	return &Refresher{loader: loader}
}

// Refresh runs one load and swaps the snapshot in. A failed load keeps the
// previous snapshot.
func (r *Refresher) Refresh(ctx context.Context) error {
	snap, err := r.loader.Load(ctx)
	if err != nil {
		appLog.Error("feed refresh failed; keeping previous snapshot", err)
		return err
	}

	r.mu.Lock()
	r.snap = snap
	cb := r.OnUpdate
	r.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
	return nil
}

// Snapshot returns the latest snapshot.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Start refreshes once, then schedules refreshes on schedule (standard
// five-field cron). Scheduled runs stop when ctx is cancelled or Stop is
// called.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := r.Refresh(ctx); err == nil {
			appLog.Debug("scheduled feed refresh done", "schedule", schedule)
		}
	}); err != nil {
		return err
	}

	_ = r.Refresh(ctx)

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()

	c.Start()
	appLog.Info("feed refresher started", "schedule", schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts scheduled refreshes and waits for a running one to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		appLog.Info("feed refresher stopped")
	}
}
