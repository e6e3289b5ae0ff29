package quickadd

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/selection"
	"tableflip.dev/almanac/pkg/tui/events"
	"tableflip.dev/almanac/pkg/tui/theme"
)

func allDayRange() selection.Range {
	return selection.Range{
		Start:  civil.NewDate(2024, time.March, 4).Time(time.UTC),
		End:    civil.NewDate(2024, time.March, 7).Time(time.UTC),
		AllDay: true,
	}
}

func TestSubmitRequiresSummary(t *testing.T) {
	m := New(theme.Default(), allDayRange())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("empty summary should not submit")
	}
	view, _ := m.View()
	if !strings.Contains(view, "summary required") {
		t.Fatalf("expected validation error in view")
	}
}

func TestSubmitEmitsSummaryAndRange(t *testing.T) {
	m := New(theme.Default(), allDayRange())
	m.input.SetValue("Planning offsite")

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	msg, ok := cmd().(events.QuickAddSubmitMsg)
	if !ok {
		t.Fatalf("expected QuickAddSubmitMsg, got %T", cmd())
	}
	if msg.Summary != "Planning offsite" {
		t.Fatalf("summary = %q", msg.Summary)
	}
	if !msg.Range.AllDay || msg.Range.StartDate() != civil.NewDate(2024, time.March, 4) {
		t.Fatalf("range not forwarded: %+v", msg.Range)
	}
}

func TestEscapeCancels(t *testing.T) {
	m := New(theme.Default(), allDayRange())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatalf("expected cancel command")
	}
	if _, ok := cmd().(events.QuickAddCancelMsg); !ok {
		t.Fatalf("expected QuickAddCancelMsg, got %T", cmd())
	}
}

func TestViewDescribesRange(t *testing.T) {
	m := New(theme.Default(), allDayRange())
	view, _ := m.View()
	if !strings.Contains(view, "2024-03-04 - 2024-03-06") {
		t.Fatalf("expected date range header; view=%q", view)
	}

	timed := selection.Range{
		Start: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC),
	}
	m = New(theme.Default(), timed)
	view, _ = m.View()
	if !strings.Contains(view, "09:00-10:30") {
		t.Fatalf("expected time range header; view=%q", view)
	}
}
