// Package timegrid renders the week and day views: an hour axis, an
// all-day chip row, and per-day columns in which overlapping timed events
// share the width lane by lane. It also hit-tests mouse coordinates into
// (day, time slot) pairs for drag selection.
package timegrid

import (
	"fmt"
	"strings"
	"time"

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
	// headerLines is the title row, the day header row and the all-day
	// chip row.
	headerLines = 3
	axisWidth   = 6
)

// Model renders a Week or Day grid.
type Model struct {
	id    events.ComponentID
	th    theme.Theme
	model *grid.Model
	byID  map[string]event.Event

	settings grid.Settings
	loc      *time.Location
	now      time.Time

	// lanes holds the timed layout per day column.
	lanes   map[civil.Date][]layout.TimeSlot
	allDay  layout.SpanLayout
	preview *selection.Range

	width  int
	height int
}

// New constructs an empty time grid.
func New(th theme.Theme, settings grid.Settings, loc *time.Location) *Model {
	if loc == nil {
		loc = time.Local
	}
	return &Model{
		id:       events.ComponentID("timegrid"),
		th:       th,
		settings: settings,
		loc:      loc,
		byID:     map[string]event.Event{},
		lanes:    map[civil.Date][]layout.TimeSlot{},
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

// SetNow positions the now indicator.
func (m *Model) SetNow(now time.Time) {
	m.now = now
}

// SetSettings replaces the grid settings, for example after a config
// change.
func (m *Model) SetSettings(s grid.Settings) {
	m.settings = s
}

// SetGrid installs the grid and the period's events, recomputing both the
// all-day span layout and the per-day lane layout.
func (m *Model) SetGrid(g *grid.Model, evs []event.Event) {
	m.model = g
	m.byID = make(map[string]event.Event, len(evs))
	for _, e := range evs {
		m.byID[e.ID] = e
	}
	m.lanes = map[civil.Date][]layout.TimeSlot{}
	if g == nil || len(g.Rows) == 0 {
		m.allDay = layout.SpanLayout{}
		return
	}
	m.allDay = layout.Spans(g, event.Intervals(evs), 1)
	for _, cell := range g.Rows[0] {
		var ivs []event.Interval
		for _, e := range event.Timed(evs, cell.Date) {
			if clipped, ok := layout.ClipToDay(event.IntervalOf(e), cell.Date, m.loc); ok {
				ivs = append(ivs, clipped)
			}
		}
		m.lanes[cell.Date] = layout.Lanes(ivs)
	}
}

// SetPreview highlights the slots covered by an in-flight drag; nil clears
// the highlight.
func (m *Model) SetPreview(r *selection.Range) {
	m.preview = r
}

func (m *Model) days() []grid.Cell {
	if m.model == nil || len(m.model.Rows) == 0 {
		return nil
	}
	return m.model.Rows[0]
}

func (m *Model) colWidth() int {
	n := len(m.days())
	if n == 0 {
		n = 7
	}
	usable := m.width - axisWidth
	if usable < n {
		usable = n * 8
	}
	return usable / n
}

// SlotAt maps terminal coordinates to the day column and time slot under
// them. Hour rows resolve to the hour's first slot.
func (m *Model) SlotAt(x, y int) (civil.Date, int, bool) {
	days := m.days()
	if len(days) == 0 || y < headerLines || x < axisWidth {
		return civil.Date{}, 0, false
	}
	hourIdx := y - headerLines
	if hourIdx >= len(m.model.Hours) {
		return civil.Date{}, 0, false
	}
	col := (x - axisWidth) / m.colWidth()
	if col < 0 || col >= len(days) {
		return civil.Date{}, 0, false
	}
	hour := m.model.Hours[hourIdx]
	slot := (hour - m.settings.DayStartHour) * 60 / m.settings.SlotMinutes
	return days[col].Date, slot, true
}

// View renders the grid.
func (m *Model) View() string {
	if m.model == nil {
		return ""
	}
	cw := m.colWidth()
	days := m.days()

	var b strings.Builder
	b.WriteString(m.th.Grid.Title.Render(m.model.Title))
	b.WriteString("\n")
	b.WriteString(m.renderDayHeader(days, cw))
	b.WriteString("\n")
	b.WriteString(m.renderAllDayRow(days, cw))
	b.WriteString("\n")

	for _, hour := range m.model.Hours {
		b.WriteString(m.renderHourRow(hour, days, cw))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderDayHeader(days []grid.Cell, cw int) string {
	cells := []string{pad("", axisWidth)}
	for _, day := range days {
		label := fmt.Sprintf("%s %d", day.Date.Weekday().String()[:2], day.Date.Day)
		style := m.th.Grid.DayHeader
		if day.Today {
			style = m.th.Grid.CellToday
		}
		cells = append(cells, style.Render(pad(label, cw)))
	}
	return strings.Join(cells, "")
}

func (m *Model) renderAllDayRow(days []grid.Cell, cw int) string {
	line := make([]string, len(days))
	occupied := make([]bool, len(days))
	for i := range line {
		line[i] = pad("", cw)
	}
	for _, s := range m.allDay.SlotsForRow(0) {
		if s.Hidden {
			continue
		}
		ev, ok := m.byID[s.EventID]
		if !ok {
			continue
		}
		width := (s.EndCol - s.StartCol + 1) * cw

		// Hidden chips under this one surface as a "+N" tail on the chip.
		var marker string
		if n := m.overflowAcross(s.StartCol, s.EndCol); n > 0 {
			tail := fmt.Sprintf(" +%d", n)
			if tw := lipgloss.Width(tail); tw < width {
				marker = m.th.Grid.Overflow.Render(tail)
				width -= tw
			}
		}

		label := truncate(ev.Summary, width)
		line[s.StartCol] = m.th.ChipStyle(ev.Calendar).Render(pad(label, width)) + marker
		occupied[s.StartCol] = true
		for c := s.StartCol + 1; c <= s.EndCol && c < len(line); c++ {
			line[c] = ""
			occupied[c] = true
		}
	}
	for c := range line {
		if occupied[c] {
			continue
		}
		if n := m.overflowAcross(c, c); n > 0 {
			line[c] = m.th.Grid.Overflow.Render(pad(fmt.Sprintf("+%d", n), cw))
		}
	}
	return pad("", axisWidth) + strings.Join(line, "")
}

// overflowAcross reports the largest hidden-chip count over a column span
// of the all-day row.
func (m *Model) overflowAcross(startCol, endCol int) int {
	if len(m.allDay.Overflow) == 0 {
		return 0
	}
	counts := m.allDay.Overflow[0]
	n := 0
	for c := startCol; c <= endCol && c < len(counts); c++ {
		if c >= 0 && counts[c] > n {
			n = counts[c]
		}
	}
	return n
}

func (m *Model) renderHourRow(hour int, days []grid.Cell, cw int) string {
	axis := m.th.TimeCol.HourAxis.Render(pad(m.settings.Locale.FormatHour(hour), axisWidth))

	var cells []string
	for _, day := range days {
		cells = append(cells, m.renderHourCell(day.Date, hour, cw))
	}
	return axis + strings.Join(cells, "")
}

func (m *Model) renderHourCell(day civil.Date, hour, cw int) string {
	hourStart := day.Time(m.loc).Add(time.Duration(hour) * time.Hour)
	hourEnd := hourStart.Add(time.Hour)

	if m.previewCovers(day, hourStart, hourEnd) {
		return m.th.TimeCol.Selected.Render(pad(m.previewLabel(hourStart), cw))
	}

	// Events whose box intersects this hour, drawn side by side in lane
	// order. Each lane gets a proportional share of the column.
	var active []layout.TimeSlot
	lanes := 1
	for _, s := range m.lanes[day] {
		if s.Start.Before(hourEnd) && hourStart.Before(s.End) {
			active = append(active, s)
			if s.Lanes > lanes {
				lanes = s.Lanes
			}
		}
	}

	if len(active) == 0 {
		if m.nowCovers(day, hourStart, hourEnd) {
			return m.th.TimeCol.NowIndicator.Render(pad(strings.Repeat("─", max(cw-1, 1)), cw))
		}
		return m.th.TimeCol.GridLine.Render(pad("·", cw))
	}

	laneWidth := cw / lanes
	if laneWidth < 1 {
		laneWidth = 1
	}
	segments := make([]string, lanes)
	for i := range segments {
		segments[i] = pad("", laneWidth)
	}
	for _, s := range active {
		if s.Lane >= lanes {
			continue
		}
		ev, ok := m.byID[s.EventID]
		if !ok {
			continue
		}
		label := truncate(ev.Summary, laneWidth)
		if !s.Start.Before(hourEnd) || s.Start.Before(hourStart) {
			// Continuation rows show a rail instead of repeating the
			// summary.
			label = truncate("│", laneWidth)
		}
		segments[s.Lane] = m.th.EventStyle(ev.Calendar).Render(pad(label, laneWidth))
	}
	return pad(strings.Join(segments, ""), cw)
}

func (m *Model) previewCovers(day civil.Date, hourStart, hourEnd time.Time) bool {
	if m.preview == nil || m.preview.AllDay {
		return false
	}
	return m.preview.Start.Before(hourEnd) && hourStart.Before(m.preview.End)
}

// previewLabel prints the dragged range once, on the hour row containing
// its start.
func (m *Model) previewLabel(hourStart time.Time) string {
	if m.preview == nil {
		return ""
	}
	start := m.preview.Start
	if start.Before(hourStart) || !start.Before(hourStart.Add(time.Hour)) {
		return ""
	}
	return fmt.Sprintf("%s-%s", start.Format("15:04"), m.preview.End.Format("15:04"))
}

func (m *Model) nowCovers(day civil.Date, hourStart, hourEnd time.Time) bool {
	if m.now.IsZero() || civil.DateOf(m.now.In(m.loc)) != day {
		return false
	}
	return !m.now.Before(hourStart) && m.now.Before(hourEnd)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		if width == 1 && len(runes) > 0 {
			return string(runes[:1])
		}
		return ""
	}
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
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

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
