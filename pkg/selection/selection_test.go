package selection

import (
	"testing"
	"time"

	"tableflip.dev/almanac/pkg/civil"
)

func newMachine() *Machine {
	return New(SlotConfig{StartHour: 8, EndHour: 18, SlotMinutes: 30}, time.UTC)
}

func TestBackwardDateDragNormalizes(t *testing.T) {
	m := newMachine()
	m.StartDate(civil.Date{Year: 2024, Month: time.March, Day: 3})
	m.UpdateDate(civil.Date{Year: 2024, Month: time.March, Day: 2})
	m.UpdateDate(civil.Date{Year: 2024, Month: time.March, Day: 1})
	r, ok := m.Release()
	if !ok {
		t.Fatalf("release without commit")
	}
	if !r.AllDay {
		t.Fatalf("date drag should commit an all-day range")
	}
	wantStart := civil.Date{Year: 2024, Month: time.March, Day: 1}
	wantEnd := civil.Date{Year: 2024, Month: time.March, Day: 3}
	if r.StartDate() != wantStart || r.EndDate() != wantEnd {
		t.Fatalf("committed %v..%v, want %v..%v", r.StartDate(), r.EndDate(), wantStart, wantEnd)
	}
	if m.Active() {
		t.Fatalf("machine should be idle after release")
	}
}

func TestForwardAndBackwardDragsMatch(t *testing.T) {
	a, b := newMachine(), newMachine()
	d1 := civil.Date{Year: 2024, Month: time.March, Day: 1}
	d2 := civil.Date{Year: 2024, Month: time.March, Day: 3}

	a.StartDate(d1)
	a.UpdateDate(d2)
	fwd, _ := a.Release()

	b.StartDate(d2)
	b.UpdateDate(d1)
	back, _ := b.Release()

	if !fwd.Start.Equal(back.Start) || !fwd.End.Equal(back.End) {
		t.Fatalf("mirror drags differ: %v..%v vs %v..%v", fwd.Start, fwd.End, back.Start, back.End)
	}
}

func TestClickCommitsSingleDay(t *testing.T) {
	m := newMachine()
	d := civil.Date{Year: 2024, Month: time.March, Day: 14}
	m.StartDate(d)
	r, ok := m.Release()
	if !ok || r.StartDate() != d || r.EndDate() != d {
		t.Fatalf("click committed %v..%v ok=%v", r.StartDate(), r.EndDate(), ok)
	}
	if got := r.End.Sub(r.Start); got != 24*time.Hour {
		t.Fatalf("single-day span = %v", got)
	}
}

func TestTimeDragCommitsExactSlots(t *testing.T) {
	m := newMachine()
	day := civil.Date{Year: 2024, Month: time.March, Day: 14}
	m.StartTime(day, 2) // 09:00 with an 08:00 day start and 30-minute slots
	m.UpdateTime(4)     // through the 10:00 slot
	r, ok := m.Release()
	if !ok {
		t.Fatalf("release without commit")
	}
	if r.AllDay {
		t.Fatalf("time drag should not be all-day")
	}
	wantStart := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) || !r.End.Equal(wantEnd) {
		t.Fatalf("committed %v..%v", r.Start, r.End)
	}
}

func TestTimeClickCommitsOneSlot(t *testing.T) {
	m := newMachine()
	day := civil.Date{Year: 2024, Month: time.March, Day: 14}
	m.StartTime(day, 0)
	r, ok := m.Release()
	if !ok {
		t.Fatalf("release without commit")
	}
	if got := r.End.Sub(r.Start); got != 30*time.Minute {
		t.Fatalf("click span = %v, want one slot", got)
	}
	if r.Start.Hour() != 8 {
		t.Fatalf("slot 0 should start at the configured day start, got %v", r.Start)
	}
}

func TestBackwardTimeDrag(t *testing.T) {
	m := newMachine()
	day := civil.Date{Year: 2024, Month: time.March, Day: 14}
	m.StartTime(day, 6)
	m.UpdateTime(3)
	r, _ := m.Release()
	wantStart := time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.March, 14, 11, 30, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) || !r.End.Equal(wantEnd) {
		t.Fatalf("committed %v..%v", r.Start, r.End)
	}
}

func TestSlotClamping(t *testing.T) {
	m := newMachine()
	day := civil.Date{Year: 2024, Month: time.March, Day: 14}
	m.StartTime(day, -5)
	m.UpdateTime(999)
	r, _ := m.Release()
	if r.Start.Hour() != 8 {
		t.Fatalf("underflow should clamp to day start, got %v", r.Start)
	}
	if r.End.Hour() != 18 || r.End.Minute() != 0 {
		t.Fatalf("overflow should clamp to day end, got %v", r.End)
	}
}

func TestCancelDiscardsDrag(t *testing.T) {
	m := newMachine()
	m.StartDate(civil.Date{Year: 2024, Month: time.March, Day: 1})
	m.UpdateDate(civil.Date{Year: 2024, Month: time.March, Day: 5})
	m.Cancel()
	if m.Active() {
		t.Fatalf("cancel should return to idle")
	}
	if _, ok := m.Release(); ok {
		t.Fatalf("release after cancel should not commit")
	}
}

func TestUpdatesIgnoredWhileIdle(t *testing.T) {
	m := newMachine()
	m.UpdateDate(civil.Date{Year: 2024, Month: time.March, Day: 1})
	m.UpdateTime(3)
	if m.Active() {
		t.Fatalf("updates must not start a drag")
	}
	if _, ok := m.Preview(); ok {
		t.Fatalf("idle machine has no preview")
	}
}

func TestStartingNewDragDiscardsOld(t *testing.T) {
	m := newMachine()
	m.StartDate(civil.Date{Year: 2024, Month: time.March, Day: 1})
	m.StartTime(civil.Date{Year: 2024, Month: time.March, Day: 14}, 2)
	if m.Mode() != TimeRange {
		t.Fatalf("mode = %v, want time-range", m.Mode())
	}
	r, _ := m.Release()
	if r.AllDay {
		t.Fatalf("stale date drag leaked into the commit")
	}
}

func TestPreviewMatchesRelease(t *testing.T) {
	m := newMachine()
	m.StartDate(civil.Date{Year: 2024, Month: time.March, Day: 9})
	m.UpdateDate(civil.Date{Year: 2024, Month: time.March, Day: 4})
	p, ok := m.Preview()
	if !ok {
		t.Fatalf("active drag should preview")
	}
	r, _ := m.Release()
	if !p.Start.Equal(r.Start) || !p.End.Equal(r.End) || p.AllDay != r.AllDay {
		t.Fatalf("preview %+v differs from commit %+v", p, r)
	}
}
