package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
)

func testStore(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p
}

func TestSaveAssignsIDAndRoundTrips(t *testing.T) {
	p := testStore(t)
	e := &event.Event{
		Summary: "dentist",
		Start:   time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.March, 14, 11, 0, 0, 0, time.UTC),
	}
	if err := p.Save(e); err != nil {
		t.Fatalf("save: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("save should mint an ID")
	}
	if e.Calendar != DefaultCalendar {
		t.Fatalf("empty calendar should default, got %q", e.Calendar)
	}

	got, ok := p.Get(context.Background(), e.ID)
	if !ok {
		t.Fatalf("stored event not found")
	}
	if got.Summary != "dentist" || !got.Start.Equal(e.Start) || !got.End.Equal(e.End) {
		t.Fatalf("round trip changed the event: %+v", got)
	}
}

func TestEventsFiltersByPeriod(t *testing.T) {
	p := testStore(t)
	in := &event.Event{
		Summary: "inside",
		Start:   time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.March, 14, 11, 0, 0, 0, time.UTC),
	}
	out := &event.Event{
		Summary: "outside",
		Start:   time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.May, 1, 11, 0, 0, 0, time.UTC),
	}
	for _, e := range []*event.Event{in, out} {
		if err := p.Save(e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	events, err := p.Events(context.Background(), event.Period{
		Start: civil.Date{Year: 2024, Month: time.March, Day: 1},
		End:   civil.Date{Year: 2024, Month: time.March, Day: 31},
	})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 1 || events[0].Summary != "inside" {
		t.Fatalf("period filter returned %+v", events)
	}
}

func TestDelete(t *testing.T) {
	p := testStore(t)
	e := &event.Event{
		Summary: "gone",
		Start:   time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.March, 14, 11, 0, 0, 0, time.UTC),
	}
	if err := p.Save(e); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := p.Delete(*e); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := p.Get(context.Background(), e.ID); ok {
		t.Fatalf("deleted event still present")
	}
	if got := p.List(context.Background()); len(got) != 0 {
		t.Fatalf("list after delete: %+v", got)
	}
}

func TestCalendars(t *testing.T) {
	p := testStore(t)
	for _, cal := range []string{"work", "home", "work"} {
		e := &event.Event{
			Calendar: cal,
			Summary:  "x",
			Start:    time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC),
			End:      time.Date(2024, time.March, 14, 11, 0, 0, 0, time.UTC),
		}
		if err := p.Save(e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	cals := p.Calendars(context.Background())
	if len(cals) != 2 || cals[0] != "home" || cals[1] != "work" {
		t.Fatalf("calendars = %v", cals)
	}
}

func TestSaveValidation(t *testing.T) {
	p := testStore(t)
	if err := p.Save(&event.Event{}); err == nil {
		t.Fatalf("empty summary should fail")
	}
	backwards := &event.Event{
		Summary: "backwards",
		Start:   time.Date(2024, time.March, 14, 11, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC),
	}
	if err := p.Save(backwards); err == nil {
		t.Fatalf("inverted range should fail")
	}
}
