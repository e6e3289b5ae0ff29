// Package quickadd renders the overlay that turns a committed drag
// selection into a stored event. It collects a summary and emits a submit
// or cancel message.
package quickadd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/selection"
	"tableflip.dev/almanac/pkg/tui/events"
	"tableflip.dev/almanac/pkg/tui/theme"
)

// Model is the quick-add overlay.
type Model struct {
	id    events.ComponentID
	th    theme.Theme
	input textinput.Model
	rng   selection.Range

	width    int
	errorMsg string
}

// New constructs the overlay for one committed range.
func New(th theme.Theme, r selection.Range) *Model {
	ti := textinput.New()
	ti.Placeholder = "Event summary…"
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Focus()

	return &Model{
		id:    events.ComponentID("quickadd"),
		th:    th,
		input: ti,
		rng:   r,
	}
}

// SetID overrides the component identifier used in emitted events.
func (m *Model) SetID(id events.ComponentID) {
	if id == "" {
		return
	}
	m.id = id
}

// SetSize configures the overlay width.
func (m *Model) SetSize(width, _ int) {
	m.width = width
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	m.input.SetWidth(inputWidth)
}

// Range returns the committed range the overlay annotates.
func (m *Model) Range() selection.Range { return m.rng }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(events.FocusCmd(m.id), m.input.Focus())
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			summary := m.input.Value()
			if summary == "" {
				m.errorMsg = "summary required"
				return m, nil
			}
			return m, events.QuickAddSubmitCmd(m.id, summary, m.rng)
		case "esc":
			return m, events.QuickAddCancelCmd(m.id)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the overlay box.
func (m *Model) View() (string, *tea.Cursor) {
	title := m.th.Overlay.Title.Render("New event")
	when := m.th.Overlay.Hint.Render(describeRange(m.rng))
	hint := m.th.Overlay.Hint.Render("enter: create · esc: cancel")

	lines := []string{title, when, "", m.input.View()}
	if m.errorMsg != "" {
		lines = append(lines, m.th.Footer.Error.Render(m.errorMsg))
	}
	lines = append(lines, "", hint)

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	box := m.th.Overlay.Frame.Render(body)

	var cursor *tea.Cursor
	if c := m.input.Cursor(); c != nil {
		clone := *c
		clone.Position.Y += 3 // title, range, blank
		clone.Position.X += 3 // border + padding
		clone.Position.Y += 2 // border + padding
		cursor = &clone
	}
	return box, cursor
}

// describeRange renders the committed range for the overlay header.
func describeRange(r selection.Range) string {
	if r.AllDay {
		start, end := r.StartDate(), r.EndDate()
		if start == end {
			return start.String()
		}
		return fmt.Sprintf("%s - %s", start, end)
	}
	if r.StartDate() == civil.DateOf(r.End.Add(-time.Minute)) {
		return fmt.Sprintf("%s %s-%s",
			r.StartDate(),
			r.Start.Format("15:04"),
			r.End.Format("15:04"))
	}
	return fmt.Sprintf("%s %s - %s %s",
		r.StartDate(), r.Start.Format("15:04"),
		civil.DateOf(r.End), r.End.Format("15:04"))
}
