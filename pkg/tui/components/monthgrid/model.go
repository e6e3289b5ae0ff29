// Package monthgrid renders a month (or a single month of the year view)
// as a grid of day cells with all-day event chips, and maps terminal mouse
// coordinates back to dates for drag selection.
package monthgrid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/grid"
	"tableflip.dev/almanac/pkg/layout"
	"tableflip.dev/almanac/pkg/selection"
	"tableflip.dev/almanac/pkg/tui/events"
	"tableflip.dev/almanac/pkg/tui/theme"
)

const (
	// headerLines is the title row plus the weekday header row.
	headerLines = 2
	// weekNumWidth is the gutter reserved for ISO week numbers.
	weekNumWidth = 4
)

// Model renders one grid.Model with its span layout.
type Model struct {
	id    events.ComponentID
	th    theme.Theme
	model *grid.Model
	slots layout.SpanLayout
	byID  map[string]event.Event

	maxLanes int
	preview  *selection.Range

	width  int
	height int
}

// New constructs an empty month grid.
func New(th theme.Theme, maxLanes int) *Model {
	if maxLanes <= 0 {
		maxLanes = 3
	}
	return &Model{
		id:       events.ComponentID("monthgrid"),
		th:       th,
		maxLanes: maxLanes,
		byID:     map[string]event.Event{},
	}
}

// SetID overrides the component identifier used in emitted events.
func (m *Model) SetID(id events.ComponentID) {
	if id == "" {
		return
	}
	m.id = id
}

// SetSize configures the rendering area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetGrid installs the grid and the period's events, recomputing the span
// layout.
func (m *Model) SetGrid(g *grid.Model, evs []event.Event) {
	m.model = g
	m.byID = make(map[string]event.Event, len(evs))
	for _, e := range evs {
		m.byID[e.ID] = e
	}
	if g != nil {
		m.slots = layout.Spans(g, event.Intervals(evs), m.maxLanes)
	} else {
		m.slots = layout.SpanLayout{}
	}
}

// SetPreview highlights the dates covered by an in-flight drag; nil clears
// the highlight.
func (m *Model) SetPreview(r *selection.Range) {
	m.preview = r
}

// rowHeight is the number of terminal lines one week row occupies: the day
// number line, the chip lanes, and the overflow line.
func (m *Model) rowHeight() int {
	return 2 + m.maxLanes
}

func (m *Model) gutter() int {
	if m.model != nil && len(m.model.WeekNumbers) > 0 {
		return weekNumWidth
	}
	return 0
}

func (m *Model) cellWidth() int {
	usable := m.width - m.gutter()
	if usable < 7 {
		usable = 7 * 3
	}
	return usable / 7
}

// CellAt maps terminal coordinates (relative to this component's origin)
// to the date cell under them.
func (m *Model) CellAt(x, y int) (civil.Date, bool) {
	if m.model == nil || len(m.model.Rows) == 0 {
		return civil.Date{}, false
	}
	row := (y - headerLines) / m.rowHeight()
	col := (x - m.gutter()) / m.cellWidth()
	if y < headerLines || x < m.gutter() || row < 0 || row >= len(m.model.Rows) {
		return civil.Date{}, false
	}
	if col < 0 || col > 6 {
		return civil.Date{}, false
	}
	return m.model.Rows[row][col].Date, true
}

// View renders the grid.
func (m *Model) View() string {
	if m.model == nil {
		return ""
	}
	cw := m.cellWidth()
	gutter := m.gutter()

	var b strings.Builder
	b.WriteString(m.th.Grid.Title.Render(m.model.Title))
	b.WriteString("\n")
	b.WriteString(m.renderDayHeader(cw, gutter))
	b.WriteString("\n")

	for row := range m.model.Rows {
		b.WriteString(m.renderRow(row, cw, gutter))
	}
	return b.String()
}

func (m *Model) renderDayHeader(cw, gutter int) string {
	var cells []string
	if gutter > 0 {
		cells = append(cells, pad("", gutter))
	}
	for _, cell := range m.model.Rows[0] {
		name := cell.Date.Weekday().String()[:min(2, cw-1)]
		cells = append(cells, m.th.Grid.DayHeader.Render(pad(name, cw)))
	}
	return strings.Join(cells, "")
}

func (m *Model) renderRow(row, cw, gutter int) string {
	cells := m.model.Rows[row]
	var lines []string

	// Day number line, with the week number in the gutter.
	var dayLine strings.Builder
	if gutter > 0 {
		wn := ""
		if row < len(m.model.WeekNumbers) {
			wn = fmt.Sprintf("W%-2d", m.model.WeekNumbers[row])
		}
		dayLine.WriteString(m.th.Grid.WeekNumber.Render(pad(wn, gutter)))
	}
	for _, cell := range cells {
		dayLine.WriteString(m.renderDayNumber(cell, cw))
	}
	lines = append(lines, dayLine.String())

	// Chip lanes.
	slots := m.slots.SlotsForRow(row)
	for lane := 0; lane < m.maxLanes; lane++ {
		lines = append(lines, m.renderLane(slots, lane, cw, gutter))
	}

	// Overflow line.
	lines = append(lines, m.renderOverflow(row, cw, gutter))

	return strings.Join(lines, "\n") + "\n"
}

func (m *Model) renderDayNumber(cell grid.Cell, cw int) string {
	style := m.th.Grid.Cell
	switch {
	case cell.Today:
		style = m.th.Grid.CellToday
	case !cell.InPeriod:
		style = m.th.Grid.CellOutside
	case cell.Weekend:
		style = m.th.Grid.CellWeekend
	}
	if m.previewCovers(cell.Date) {
		style = m.th.Grid.Selected
	}
	return style.Render(pad(fmt.Sprintf("%2d", cell.Date.Day), cw))
}

func (m *Model) previewCovers(d civil.Date) bool {
	if m.preview == nil {
		return false
	}
	return !d.Before(m.preview.StartDate()) && !d.After(m.preview.EndDate())
}

func (m *Model) renderLane(slots []layout.Slot, lane, cw, gutter int) string {
	line := make([]string, 7)
	for i := range line {
		line[i] = pad("", cw)
	}
	for _, s := range slots {
		if s.Lane != lane || s.Hidden {
			continue
		}
		ev, ok := m.byID[s.EventID]
		if !ok {
			continue
		}
		width := (s.EndCol - s.StartCol + 1) * cw
		label := chipLabel(ev.Summary, s.Kind, width)
		style := m.th.ChipStyle(ev.Calendar)
		if s.Kind != layout.SpanSingle {
			style = style.Inherit(m.th.Chips.Continued)
		}
		chip := style.Render(pad(label, width))
		line[s.StartCol] = chip
		for c := s.StartCol + 1; c <= s.EndCol; c++ {
			line[c] = ""
		}
	}
	return pad("", gutter) + strings.Join(line, "")
}

func (m *Model) renderOverflow(row, cw, gutter int) string {
	var cells []string
	if gutter > 0 {
		cells = append(cells, pad("", gutter))
	}
	for col := range m.model.Rows[row] {
		n := 0
		if row < len(m.slots.Overflow) && col < len(m.slots.Overflow[row]) {
			n = m.slots.Overflow[row][col]
		}
		if n > 0 {
			cells = append(cells, m.th.Grid.Overflow.Render(pad(fmt.Sprintf("+%d", n), cw)))
		} else {
			cells = append(cells, pad("", cw))
		}
	}
	return strings.Join(cells, "")
}

// chipLabel trims a summary to the chip width, marking truncation and rows
// the event continues from or into.
func chipLabel(summary string, kind layout.SpanKind, width int) string {
	prefix, suffix := "", ""
	switch kind {
	case layout.SpanFirst:
		suffix = "…"
	case layout.SpanLast:
		prefix = "…"
	case layout.SpanMiddle:
		prefix, suffix = "…", "…"
	}
	label := prefix + summary + suffix
	if lipgloss.Width(label) > width && width > 1 {
		runes := []rune(label)
		if len(runes) > width-1 {
			runes = runes[:width-1]
		}
		label = string(runes) + "…"
	}
	return label
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
