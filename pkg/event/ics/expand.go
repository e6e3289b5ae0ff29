package ics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"tableflip.dev/almanac/pkg/event"
)

// maxOccurrences caps the expansion of a single recurring event within one
// query window. A weekly rule over a month yields five; anything near the
// cap is a rule gone wrong.
const maxOccurrences = 1000

// Events implements event.Source: it expands every parsed subscription
// into concrete events overlapping the period. Feeds are fetched lazily on
// the first query; call Refresh to re-fetch.
func (f *Feed) Events(ctx context.Context, p event.Period) ([]event.Event, error) {
	f.mu.RLock()
	empty := len(f.parsed) == 0
	f.mu.RUnlock()
	if empty && len(f.subs) > 0 {
		if err := f.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	windowStart := p.Start.Time(f.loc)
	windowEnd := p.End.AddDays(1).Time(f.loc)

	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []event.Event
	for _, parsed := range f.parsed {
		overrides := make(map[string][]parsedEvent)
		for _, ev := range parsed {
			if ev.isOverride() {
				overrides[ev.uid] = append(overrides[ev.uid], ev)
			}
		}
		for _, ev := range parsed {
			if ev.isOverride() {
				continue
			}
			out = append(out, expand(ev, overrides[ev.uid], windowStart, windowEnd, f.loc)...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// expand yields the concrete events of one VEVENT inside the window,
// applying RRULE, EXDATE and RECURRENCE-ID overrides.
func expand(ev parsedEvent, overrides []parsedEvent, windowStart, windowEnd time.Time, loc *time.Location) []event.Event {
	if ev.rawRRule == "" {
		if !overlaps(ev.start, ev.end, windowStart, windowEnd) {
			return nil
		}
		if o, ok := overrideFor(overrides, ev.start); ok {
			ev = o
		}
		return []event.Event{materialize(ev, ev.start, ev.end, loc)}
	}

	rule, err := rrule.StrToRRule(ev.rawRRule)
	if err != nil {
		return nil
	}
	rule.DTStart(ev.start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	// Widen the query by the event's duration so occurrences that start
	// before the window but reach into it still appear.
	duration := ev.end.Sub(ev.start)
	if duration < 0 {
		duration = 0
	}
	from := windowStart.Add(-duration).In(ev.start.Location())
	to := windowEnd.In(ev.start.Location())

	starts := set.Between(from, to, true)
	if len(starts) > maxOccurrences {
		starts = starts[:maxOccurrences]
	}

	var out []event.Event
	for _, start := range starts {
		end := start.Add(duration)
		occ := ev
		if o, ok := overrideFor(overrides, start); ok {
			occ = o
			start, end = o.start, o.end
		}
		if !overlaps(start, end, windowStart, windowEnd) {
			continue
		}
		out = append(out, materialize(occ, start, end, loc))
	}
	return out
}

// overrideFor matches a RECURRENCE-ID override against one occurrence
// start.
func overrideFor(overrides []parsedEvent, start time.Time) (parsedEvent, bool) {
	for _, o := range overrides {
		if o.recurrenceID != nil && o.recurrenceID.Equal(start) {
			return o, true
		}
	}
	return parsedEvent{}, false
}

func materialize(ev parsedEvent, start, end time.Time, loc *time.Location) event.Event {
	calendar := ev.sub.Name
	if calendar == "" {
		calendar = ev.sub.ID
	}
	if ev.allDay {
		// All-day events are dates, not instants. Rebuild them at local
		// midnight so a feed in another zone cannot shift the day.
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
	}
	return event.Event{
		ID:       fmt.Sprintf("%s/%s/%s", ev.sub.ID, ev.uid, start.In(loc).Format(time.RFC3339)),
		Calendar: calendar,
		Summary:  ev.summary,
		Location: ev.location,
		AllDay:   ev.allDay,
		Start:    start.In(loc),
		End:      end.In(loc),
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aEnd.After(aStart) {
		aEnd = aStart.Add(time.Minute)
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
