// Package event defines the calendar event model, the read-only interval
// projection the layout engine consumes, and the capability interface every
// event backend implements.
package event

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/almanac/pkg/civil"
)

// Event is one concrete calendar entry: either a stored local event or an
// expanded occurrence from a subscription. The core reads snapshots of
// these and never mutates them.
type Event struct {
	ID       string    `json:"id"`
	Calendar string    `json:"calendar"`
	Summary  string    `json:"summary"`
	Location string    `json:"location,omitempty"`
	AllDay   bool      `json:"all_day,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// StartDate returns the calendar date the event begins on.
func (e Event) StartDate() civil.Date {
	return civil.DateOf(e.Start)
}

// EndDate returns the last calendar date the event covers. All-day events
// use the iCalendar convention of an exclusive end, so a one-day event
// ending at midnight of the next day still ends on its start date.
func (e Event) EndDate() civil.Date {
	end := e.End
	if e.AllDay && !end.After(e.Start) {
		return e.StartDate()
	}
	d := civil.DateOf(end)
	if e.AllDay || (end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0) {
		if prev := d.AddDays(-1); !prev.Before(e.StartDate()) {
			return prev
		}
	}
	return d
}

// Interval is the projection of an event the layout engine works on. It
// does not own the underlying record.
type Interval struct {
	ID     string
	Start  time.Time
	End    time.Time
	AllDay bool
}

// SpansDays reports whether the interval covers more than one calendar date.
func (iv Interval) SpansDays() bool {
	return iv.StartDate() != iv.EndDate()
}

// StartDate returns the date the interval begins on.
func (iv Interval) StartDate() civil.Date {
	return civil.DateOf(iv.Start)
}

// EndDate returns the last date the interval covers, treating midnight ends
// as exclusive like Event.EndDate.
func (iv Interval) EndDate() civil.Date {
	return Event{AllDay: iv.AllDay, Start: iv.Start, End: iv.End}.EndDate()
}

// IntervalOf projects a single event.
func IntervalOf(e Event) Interval {
	return Interval{ID: e.ID, Start: e.Start, End: e.End, AllDay: e.AllDay}
}

// Intervals projects a snapshot of events for the layout engine, in a
// stable order (start, then end, then ID).
func Intervals(events []Event) []Interval {
	out := make([]Interval, 0, len(events))
	for _, e := range events {
		out = append(out, IntervalOf(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if !out[i].End.Equal(out[j].End) {
			return out[i].End.Before(out[j].End)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Period is an inclusive visible date range.
type Period struct {
	Start civil.Date
	End   civil.Date
}

// PeriodOf normalizes two dates into a Period regardless of order.
func PeriodOf(a, b civil.Date) Period {
	return Period{Start: civil.Min(a, b), End: civil.Max(a, b)}
}

// Contains reports whether the date lies inside the period.
func (p Period) Contains(d civil.Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Overlaps reports whether an event touching [start, end] dates intersects
// the period.
func (p Period) Overlaps(start, end civil.Date) bool {
	return !end.Before(p.Start) && !start.After(p.End)
}

// Source supplies a read-only snapshot of events for a visible period.
// Backends (local store, ICS subscriptions) implement this; the grid,
// layout and selection core depend only on the interface.
type Source interface {
	// Name identifies the backing calendar for coloring and logs.
	Name() string
	// Events returns every event overlapping the period. The returned
	// slice is owned by the caller.
	Events(ctx context.Context, p Period) ([]Event, error)
}

// OnDay filters a snapshot down to events touching a single date.
func OnDay(events []Event, d civil.Date) []Event {
	var out []Event
	for _, e := range events {
		if !d.Before(e.StartDate()) && !d.After(e.EndDate()) {
			out = append(out, e)
		}
	}
	return out
}

// Timed filters a snapshot down to clocked (non all-day) events on a date.
func Timed(events []Event, d civil.Date) []Event {
	var out []Event
	for _, e := range OnDay(events, d) {
		if !e.AllDay {
			out = append(out, e)
		}
	}
	return out
}
