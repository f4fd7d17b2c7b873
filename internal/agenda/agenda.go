// Package agenda lays events out into day cells. An event crossing midnight
// shows up in every day it touches, and each cell knows whether the event
// continues before or after it.
package agenda

import (
	"sort"
	"strings"
	"time"

	"calevent/internal/model"
)

// Entry is one event as placed in one day.
type Entry struct {
	Event    model.Event
	Multiday bool
	// HasPrev is true when the event started on an earlier day.
	HasPrev bool
	// HasNext is true when the event continues on a later day.
	HasNext bool
}

// Day is a calendar day and the entries overlapping it.
type Day struct {
	Date    time.Time
	Entries []Entry
}

// Window returns the first day and the number of days shown by view
// ("day", "week" or "month") around now. Weeks start on weekStart
// ("monday" or "sunday").
func Window(now time.Time, view, weekStart string, loc *time.Location) (time.Time, int) {
	if loc == nil {
		loc = time.Local
	}
	today := midnight(now.In(loc))

	switch view {
	case "day":
		return today, 1
	case "month":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return first, first.AddDate(0, 1, -1).Day()
	default:
		return StartOfWeek(today, weekStart), 7
	}
}

// StartOfWeek returns midnight of the week start on or before t.
func StartOfWeek(t time.Time, weekStart string) time.Time {
	day := midnight(t)
	first := time.Monday
	if strings.EqualFold(weekStart, "sunday") {
		first = time.Sunday
	}
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// Build places events into days consecutive days starting at the day
// containing start, in loc. Within a day, all-day and multi-day entries
// come first, then by start time and ID.
func Build(events []model.Event, start time.Time, days int, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}
	if days < 0 {
		days = 0
	}
	first := midnight(start.In(loc))

	out := make([]Day, days)
	for i := range out {
		out[i] = Day{Date: first.AddDate(0, 0, i), Entries: []Entry{}}
	}

	for _, ev := range events {
		evFirst, evLast := span(ev, loc)
		for i := range out {
			d := out[i].Date
			if d.Before(evFirst) || d.After(evLast) {
				continue
			}
			out[i].Entries = append(out[i].Entries, Entry{
				Event:    ev,
				Multiday: !evFirst.Equal(evLast),
				HasPrev:  d.After(evFirst),
				HasNext:  d.Before(evLast),
			})
		}
	}

	for i := range out {
		sortEntries(out[i].Entries)
	}
	return out
}

// span returns the midnights of the first and last day ev occupies. The
// end is exclusive, so an event ending exactly at midnight does not touch
// the following day.
func span(ev model.Event, loc *time.Location) (time.Time, time.Time) {
	s := ev.Start.In(loc)
	e := ev.End.In(loc)
	first := midnight(s)
	if !e.After(s) {
		return first, first
	}
	return first, midnight(e.Add(-time.Nanosecond))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		aLong := a.Event.AllDay || a.Multiday
		bLong := b.Event.AllDay || b.Multiday
		if aLong != bLong {
			return aLong
		}
		if !a.Event.Start.Equal(b.Event.Start) {
			return a.Event.Start.Before(b.Event.Start)
		}
		return a.Event.ID < b.Event.ID
	})
}
