package monthgrid

import (
	"strings"
	"testing"
	"time"

	"github.com/muesli/reflow/ansi"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/grid"
	"tableflip.dev/almanac/pkg/tui/theme"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func marchModel(t *testing.T, evs []event.Event) *Model {
	t.Helper()
	s := grid.DefaultSettings()
	s.FirstDay = time.Monday
	anchor := civil.NewDate(2024, time.March, 1)
	g := grid.Build(grid.Month, anchor, civil.NewDate(2024, time.March, 15), s)

	m := New(theme.Default(), 3)
	m.SetSize(102, 40)
	m.SetGrid(g, evs)
	return m
}

func allDayEvent(id, summary string, start, end civil.Date) event.Event {
	return event.Event{
		ID:       id,
		Calendar: "personal",
		Summary:  summary,
		AllDay:   true,
		Start:    start.Time(time.UTC),
		End:      end.AddDays(1).Time(time.UTC),
	}
}

func TestCellAtRoundTrip(t *testing.T) {
	m := marchModel(t, nil)
	// 102 wide with a 4 column gutter gives 14 column cells.
	cw := (102 - 4) / 7

	for row, cells := range m.model.Rows {
		for col, cell := range cells {
			x := 4 + col*cw
			y := headerLines + row*m.rowHeight()
			got, ok := m.CellAt(x, y)
			if !ok || got != cell.Date {
				t.Fatalf("CellAt(%d,%d) = %v,%v; want %s", x, y, got, ok, cell.Date)
			}
			// The bottom right corner of the cell maps to the same date.
			got, ok = m.CellAt(x+cw-1, y+m.rowHeight()-1)
			if !ok || got != cell.Date {
				t.Fatalf("CellAt corner (%d,%d) = %v,%v; want %s", x+cw-1, y+m.rowHeight()-1, got, ok, cell.Date)
			}
		}
	}

	if _, ok := m.CellAt(5, 0); ok {
		t.Fatalf("header row should not hit a cell")
	}
	if _, ok := m.CellAt(1, headerLines); ok {
		t.Fatalf("week number gutter should not hit a cell")
	}
}

func TestViewShowsChipsAndOverflow(t *testing.T) {
	day := civil.NewDate(2024, time.March, 5)
	evs := []event.Event{
		allDayEvent("a", "standup", day, day),
		allDayEvent("b", "review", day, day),
		allDayEvent("c", "retro", day, day),
		allDayEvent("d", "hidden one", day, day),
	}
	m := marchModel(t, evs)

	view := stripANSIString(m.View())
	for _, want := range []string{"March 2024", "standup", "retro", "+1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view; view=%q", want, view)
		}
	}
	if strings.Contains(view, "hidden one") {
		t.Fatalf("fourth lane should overflow, not render")
	}
}

func TestViewMarksRowContinuation(t *testing.T) {
	// March 8 is a Friday; the event wraps into the following week row.
	evs := []event.Event{
		allDayEvent("wrap", "conference", civil.NewDate(2024, time.March, 8), civil.NewDate(2024, time.March, 12)),
	}
	m := marchModel(t, evs)

	view := stripANSIString(m.View())
	if !strings.Contains(view, "conference…") {
		t.Fatalf("expected continuation suffix on first segment; view=%q", view)
	}
	if !strings.Contains(view, "…conference") {
		t.Fatalf("expected continuation prefix on second segment; view=%q", view)
	}
}

func TestViewShowsWeekNumbers(t *testing.T) {
	m := marchModel(t, nil)
	view := stripANSIString(m.View())
	// The row containing March 4 2024 is ISO week 10.
	if !strings.Contains(view, "W10") {
		t.Fatalf("expected week number gutter; view=%q", view)
	}
}
