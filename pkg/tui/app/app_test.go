package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/clock"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/grid"
	"tableflip.dev/almanac/pkg/selection"
	"tableflip.dev/almanac/pkg/store"
	"tableflip.dev/almanac/pkg/tui/events"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	persist, err := store.Load(t.TempDir())
	if err != nil {
		t.Fatalf("store.Load: %v", err)
	}
	m := New(Options{
		Settings:   grid.DefaultSettings(),
		SlotConfig: selection.SlotConfig{StartHour: 0, EndHour: 24, SlotMinutes: 15},
		Store:      persist,
		Clock:      clock.Fixed(testNow),
		Location:   time.UTC,
	})
	t.Cleanup(m.Close)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 102, Height: 40})
	return assertAppModel(t, sized)
}

// monthXY returns terminal coordinates inside the month cell for a date.
// Geometry mirrors monthgrid at the 102-column test size: a 4-column week
// number gutter, (102-4)/7 wide cells, 2 header lines, 2+maxLanes tall rows.
func monthXY(t *testing.T, m *Model, d civil.Date) (int, int) {
	t.Helper()
	g := m.Grid()
	row, col, ok := g.Locate(d)
	if !ok {
		t.Fatalf("date %s not in visible grid %s", d, g.Title)
	}
	cw := (102 - 4) / 7
	x := 4 + col*cw
	y := 2 + row*(2+m.settings.MaxVisibleLanes)
	return x, y
}

func drainAppCommands(t *testing.T, m *Model, cmds ...tea.Cmd) *Model {
	t.Helper()
	queue := append([]tea.Cmd(nil), cmds...)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		switch v := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(v)...)
		default:
			next, nextCmd := m.Update(v)
			m = assertAppModel(t, next)
			if nextCmd != nil {
				queue = append(queue, nextCmd)
			}
		}
	}
	return m
}

func assertAppModel(t *testing.T, model tea.Model) *Model {
	t.Helper()
	m, ok := model.(*Model)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return m
}

func press(t *testing.T, m *Model, key tea.KeyPressMsg) *Model {
	t.Helper()
	next, cmd := m.Update(key)
	m = assertAppModel(t, next)
	return drainAppCommands(t, m, cmd)
}

func stripANSI(s string) string {
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

func TestKeysNavigatePeriods(t *testing.T) {
	m := newTestModel(t)
	if got := m.Grid().Anchor.Month; got != time.March {
		t.Fatalf("expected March anchor, got %s", got)
	}

	m = press(t, m, tea.KeyPressMsg{Text: "l", Code: 'l'})
	if got := m.anchor.Month; got != time.April {
		t.Fatalf("expected April after next, got %s", got)
	}

	m = press(t, m, tea.KeyPressMsg{Text: "h", Code: 'h'})
	m = press(t, m, tea.KeyPressMsg{Text: "h", Code: 'h'})
	if got := m.anchor.Month; got != time.February {
		t.Fatalf("expected February after two prev, got %s", got)
	}

	m = press(t, m, tea.KeyPressMsg{Text: "t", Code: 't'})
	if got := m.anchor; got != civil.DateOf(testNow) {
		t.Fatalf("expected today %s after jump, got %s", civil.DateOf(testNow), got)
	}
}

func TestViewKeysSwitchGranularity(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.KeyPressMsg{Text: "w", Code: 'w'})
	if m.granularity != grid.Week {
		t.Fatalf("expected week view, got %s", m.granularity)
	}
	m = press(t, m, tea.KeyPressMsg{Text: "d", Code: 'd'})
	if m.granularity != grid.Day {
		t.Fatalf("expected day view, got %s", m.granularity)
	}
	m = press(t, m, tea.KeyPressMsg{Text: "y", Code: 'y'})
	if m.granularity != grid.Year {
		t.Fatalf("expected year view, got %s", m.granularity)
	}
	m = press(t, m, tea.KeyPressMsg{Text: "m", Code: 'm'})
	if m.granularity != grid.Month {
		t.Fatalf("expected month view, got %s", m.granularity)
	}
}

func TestMouseDragOpensQuickAdd(t *testing.T) {
	m := newTestModel(t)

	x1, y1 := monthXY(t, m, civil.NewDate(2024, time.March, 4))
	x2, y2 := monthXY(t, m, civil.NewDate(2024, time.March, 6))

	next, cmd := m.Update(tea.MouseClickMsg{X: x1, Y: y1, Button: tea.MouseLeft})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)
	if !m.sel.Active() {
		t.Fatalf("expected drag to start on mouse down")
	}

	next, cmd = m.Update(tea.MouseMotionMsg{X: x2, Y: y2, Button: tea.MouseLeft})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)

	next, cmd = m.Update(tea.MouseReleaseMsg{X: x2, Y: y2, Button: tea.MouseLeft})
	m = assertAppModel(t, next)
	if cmd == nil {
		t.Fatalf("expected commit command on release")
	}
	commit, ok := cmd().(events.SelectionCommitMsg)
	if !ok {
		t.Fatalf("expected SelectionCommitMsg")
	}
	next, _ = m.Update(commit)
	m = assertAppModel(t, next)

	if m.overlay == nil {
		t.Fatalf("expected quick-add overlay after commit")
	}
	r := m.overlay.Range()
	if !r.AllDay {
		t.Fatalf("expected all-day range from month drag")
	}
	if got := r.StartDate(); got != civil.NewDate(2024, time.March, 4) {
		t.Fatalf("range start = %s, want 2024-03-04", got)
	}
	if got := r.EndDate(); got != civil.NewDate(2024, time.March, 6) {
		t.Fatalf("range end = %s, want 2024-03-06", got)
	}
}

func TestQuickAddSubmitCreatesEvent(t *testing.T) {
	m := newTestModel(t)

	r := selection.Range{
		Start:  time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC),
		AllDay: true,
	}
	next, cmd := m.Update(events.QuickAddSubmitMsg{Component: rootID, Summary: "Offsite", Range: r})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)

	if m.overlay != nil {
		t.Fatalf("expected overlay closed after submit")
	}
	var found *event.Event
	for i := range m.events {
		if m.events[i].Summary == "Offsite" {
			found = &m.events[i]
		}
	}
	if found == nil {
		t.Fatalf("expected created event in loaded period, have %d events", len(m.events))
	}
	if !found.AllDay || found.StartDate() != civil.NewDate(2024, time.March, 4) {
		t.Fatalf("created event %+v does not match submitted range", found)
	}
	if !strings.Contains(m.status, "Offsite") {
		t.Fatalf("expected status to mention created event, got %q", m.status)
	}
}

func TestViewSwitchCancelsDrag(t *testing.T) {
	m := newTestModel(t)

	x, y := monthXY(t, m, civil.NewDate(2024, time.March, 12))
	next, cmd := m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)
	if !m.sel.Active() {
		t.Fatalf("expected active drag")
	}

	m = press(t, m, tea.KeyPressMsg{Text: "w", Code: 'w'})
	if m.sel.Active() {
		t.Fatalf("expected view switch to cancel drag")
	}
	if m.dragging {
		t.Fatalf("expected dragging flag cleared")
	}

	next, cmd = m.Update(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
	m = assertAppModel(t, next)
	if cmd != nil {
		t.Fatalf("release after cancel should not commit")
	}
	if m.overlay != nil {
		t.Fatalf("no overlay expected after canceled drag")
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m := newTestModel(t)

	x, y := monthXY(t, m, civil.NewDate(2024, time.March, 12))
	next, cmd := m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.sel.Active() || m.dragging {
		t.Fatalf("expected esc to cancel drag")
	}
}

func TestFocusLossCancelsDrag(t *testing.T) {
	m := newTestModel(t)

	x, y := monthXY(t, m, civil.NewDate(2024, time.March, 12))
	next, cmd := m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)

	next, cmd = m.Update(tea.BlurMsg{})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)
	if m.sel.Active() || m.dragging {
		t.Fatalf("expected focus loss to cancel drag")
	}

	next, cmd = m.Update(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
	m = assertAppModel(t, next)
	if cmd != nil {
		t.Fatalf("release after focus loss should not commit")
	}
	if m.overlay != nil {
		t.Fatalf("no overlay expected after cancelled drag")
	}
}

func TestTimeDragCommitsTimedRange(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, tea.KeyPressMsg{Text: "w", Code: 'w'})

	g := m.Grid()
	day := g.Rows[0][2].Date
	cw := (102 - 6) / 7
	x := 6 + 2*cw
	yAt := func(hour int) int { return 3 + hour }

	next, cmd := m.Update(tea.MouseClickMsg{X: x, Y: yAt(9), Button: tea.MouseLeft})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)
	next, cmd = m.Update(tea.MouseMotionMsg{X: x, Y: yAt(11), Button: tea.MouseLeft})
	m = drainAppCommands(t, assertAppModel(t, next), cmd)

	next, cmd = m.Update(tea.MouseReleaseMsg{X: x, Y: yAt(11), Button: tea.MouseLeft})
	m = assertAppModel(t, next)
	if cmd == nil {
		t.Fatalf("expected commit command on release")
	}
	commit, ok := cmd().(events.SelectionCommitMsg)
	if !ok {
		t.Fatalf("expected SelectionCommitMsg")
	}
	if commit.Range.AllDay {
		t.Fatalf("time grid drag should produce a timed range")
	}
	wantStart := day.Time(time.UTC).Add(9 * time.Hour)
	wantEnd := day.Time(time.UTC).Add(11*time.Hour + 15*time.Minute)
	if !commit.Range.Start.Equal(wantStart) || !commit.Range.End.Equal(wantEnd) {
		t.Fatalf("range = %s..%s, want %s..%s",
			commit.Range.Start, commit.Range.End, wantStart, wantEnd)
	}
}

func TestTickRollsTodayOver(t *testing.T) {
	m := newTestModel(t)
	before := m.cache.Builds()

	next, _ := m.Update(events.TickMsg{Now: testNow.Add(time.Minute)})
	m = assertAppModel(t, next)
	if m.cache.Builds() != before || m.today != civil.DateOf(testNow) {
		t.Fatalf("same-day tick should not invalidate the cache")
	}

	tomorrow := testNow.Add(24 * time.Hour)
	next, _ = m.Update(events.TickMsg{Now: tomorrow})
	m = assertAppModel(t, next)
	if m.today != civil.DateOf(tomorrow) {
		t.Fatalf("expected today to roll over to %s, got %s", civil.DateOf(tomorrow), m.today)
	}
	if m.cache.Builds() <= before {
		t.Fatalf("expected grid rebuild after today changed")
	}
}

func TestMonthViewRendersTitleAndFooter(t *testing.T) {
	m := newTestModel(t)
	view, _ := m.View()
	plain := stripANSI(view)
	if !strings.Contains(plain, "March 2024") {
		t.Fatalf("expected month title in view; view=%q", plain)
	}
	if !strings.Contains(plain, "m/w/d/y views") {
		t.Fatalf("expected footer help in view; view=%q", plain)
	}
}

func TestYearViewRendersTwelveMonths(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, tea.KeyPressMsg{Text: "y", Code: 'y'})

	view, _ := m.View()
	plain := stripANSI(view)
	for _, name := range []string{"January", "June", "December"} {
		if !strings.Contains(plain, name) {
			t.Fatalf("expected %s in year view; view=%q", name, plain)
		}
	}
}
