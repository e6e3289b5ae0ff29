package layout

import (
	"testing"
	"time"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
)

func timed(id string, h, m, durMin int) event.Interval {
	start := time.Date(2024, time.March, 4, h, m, 0, 0, time.UTC)
	return event.Interval{ID: id, Start: start, End: start.Add(time.Duration(durMin) * time.Minute)}
}

func TestLanesStaircase(t *testing.T) {
	// 09:00-10:00, 09:30-10:30 and 09:45-10:45 all overlap pairwise, so
	// the cluster needs three lanes.
	slots := Lanes([]event.Interval{
		timed("a", 9, 0, 60),
		timed("b", 9, 30, 60),
		timed("c", 9, 45, 60),
	})
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Lanes != 3 {
			t.Fatalf("%s has cluster width %d, want 3", s.EventID, s.Lanes)
		}
	}
	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for _, s := range slots {
		if s.Lane != want[s.EventID] {
			t.Fatalf("%s on lane %d, want %d", s.EventID, s.Lane, want[s.EventID])
		}
	}
}

func TestLanesReuseAfterDrain(t *testing.T) {
	slots := Lanes([]event.Interval{
		timed("a", 9, 0, 30),
		timed("b", 9, 0, 30),
		timed("c", 9, 30, 30),
	})
	byID := map[string]TimeSlot{}
	for _, s := range slots {
		byID[s.EventID] = s
	}
	if byID["c"].Lane != 0 {
		t.Fatalf("c should reuse lane 0 once a ends, got %d", byID["c"].Lane)
	}
	// c starts exactly when a and b end, so the active set is empty and
	// a fresh full-width cluster begins.
	if byID["a"].Lanes != 2 || byID["c"].Lanes != 1 {
		t.Fatalf("cluster widths a=%d c=%d, want 2 and 1", byID["a"].Lanes, byID["c"].Lanes)
	}
}

func TestLanesClusterIsolation(t *testing.T) {
	slots := Lanes([]event.Interval{
		timed("a", 9, 0, 60),
		timed("b", 9, 30, 60),
		timed("c", 14, 0, 60),
	})
	byID := map[string]TimeSlot{}
	for _, s := range slots {
		byID[s.EventID] = s
	}
	if byID["c"].Lanes != 1 || byID["c"].Lane != 0 {
		t.Fatalf("afternoon event should stand alone, got %+v", byID["c"])
	}
	if w := byID["c"].Width(); w != 1 {
		t.Fatalf("solo event width = %v, want 1", w)
	}
	if byID["b"].Offset() != 0.5 {
		t.Fatalf("b offset = %v, want 0.5", byID["b"].Offset())
	}
}

func TestLanesZeroDuration(t *testing.T) {
	slots := Lanes([]event.Interval{
		timed("instant", 9, 0, 0),
		timed("meeting", 9, 0, 30),
	})
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Lanes != 2 {
			t.Fatalf("zero-duration event should still conflict, %s width %d", s.EventID, s.Lanes)
		}
		if s.EventID == "instant" && !s.End.After(s.Start) {
			t.Fatalf("instant event not widened: %v..%v", s.Start, s.End)
		}
	}
}

func TestLanesDeterministic(t *testing.T) {
	ivs := []event.Interval{
		timed("x", 9, 0, 30),
		timed("y", 9, 0, 30),
		timed("z", 9, 0, 30),
	}
	first := Lanes(ivs)
	second := Lanes([]event.Interval{ivs[2], ivs[0], ivs[1]})
	lanes := func(slots []TimeSlot) map[string]int {
		out := map[string]int{}
		for _, s := range slots {
			out[s.EventID] = s.Lane
		}
		return out
	}
	a, b := lanes(first), lanes(second)
	for id := range a {
		if a[id] != b[id] {
			t.Fatalf("lane for %s differs across input orders: %d vs %d", id, a[id], b[id])
		}
	}
	if a["x"] != 0 || a["y"] != 1 || a["z"] != 2 {
		t.Fatalf("ties should break by ID, got %v", a)
	}
}

func TestLanesNeverExceedClique(t *testing.T) {
	ivs := []event.Interval{
		timed("a", 9, 0, 120),
		timed("b", 9, 15, 30),
		timed("c", 10, 0, 30),
		timed("d", 10, 15, 60),
	}
	slots := Lanes(ivs)
	// The largest set of mutually overlapping intervals here has size 3
	// (a, c, d at 10:15).
	for _, s := range slots {
		if s.Lanes > 3 {
			t.Fatalf("cluster width %d exceeds maximum clique 3", s.Lanes)
		}
		if s.Lane >= s.Lanes {
			t.Fatalf("%s lane %d outside cluster width %d", s.EventID, s.Lane, s.Lanes)
		}
	}
	// No two slots on the same lane may overlap in time.
	for i, a := range slots {
		for _, b := range slots[i+1:] {
			if a.Lane == b.Lane && a.Start.Before(b.End) && b.Start.Before(a.End) {
				t.Fatalf("%s and %s overlap on lane %d", a.EventID, b.EventID, a.Lane)
			}
		}
	}
}

func TestLanesSkipsAllDay(t *testing.T) {
	day := civil.Date{Year: 2024, Month: time.March, Day: 4}
	ivs := []event.Interval{
		{ID: "ad", Start: day.Time(time.UTC), End: day.AddDays(1).Time(time.UTC), AllDay: true},
		timed("t", 9, 0, 30),
	}
	slots := Lanes(ivs)
	if len(slots) != 1 || slots[0].EventID != "t" {
		t.Fatalf("all-day events should be excluded, got %+v", slots)
	}
}

func TestClipToDay(t *testing.T) {
	iv := event.Interval{
		ID:    "long",
		Start: time.Date(2024, time.March, 4, 22, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 5, 2, 0, 0, 0, time.UTC),
	}
	first, ok := ClipToDay(iv, civil.Date{Year: 2024, Month: time.March, Day: 4}, time.UTC)
	if !ok {
		t.Fatalf("interval touches March 4")
	}
	if first.Start.Hour() != 22 || !first.End.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first day clip %v..%v", first.Start, first.End)
	}
	second, ok := ClipToDay(iv, civil.Date{Year: 2024, Month: time.March, Day: 5}, time.UTC)
	if !ok || second.Start.Hour() != 0 || second.End.Hour() != 2 {
		t.Fatalf("second day clip %v..%v ok=%v", second.Start, second.End, ok)
	}
	if _, ok := ClipToDay(iv, civil.Date{Year: 2024, Month: time.March, Day: 6}, time.UTC); ok {
		t.Fatalf("interval does not touch March 6")
	}
}
