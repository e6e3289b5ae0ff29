// Package minical renders compact month calendars for the year view: a
// title, a weekday header and day-number rows, three characters per day.
package minical

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/grid"
)

// CellWidth is the rendered width of one day column.
const CellWidth = 3

// headerLines is the title row plus the weekday header row.
const headerLines = 2

// Options controls minical styling.
type Options struct {
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	DayStyle      lipgloss.Style
	OutsideStyle  lipgloss.Style
	WeekendStyle  lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style

	// Busy reports whether a date has events, shown bold.
	Busy func(civil.Date) bool
	// Selected reports whether a date is covered by a drag preview.
	Selected func(civil.Date) bool
}

// Width returns the rendered width of a minical.
func Width() int { return 7 * CellWidth }

// Height returns the rendered line count for a month model.
func Height(m *grid.Model) int {
	if m == nil {
		return 0
	}
	return headerLines + len(m.Rows)
}

// Render produces the multi-line mini calendar for one month model, as
// built by the year grid (bleed cells blank).
func Render(m *grid.Model, opts Options) string {
	if m == nil || len(m.Rows) == 0 {
		return ""
	}

	lines := []string{
		opts.TitleStyle.Render(pad(m.Anchor.Month.String(), Width())),
		opts.HeaderStyle.Render(header(m)),
	}

	for _, row := range m.Rows {
		var cells []string
		for _, cell := range row {
			cells = append(cells, renderDay(cell, opts))
		}
		lines = append(lines, strings.Join(cells, ""))
	}
	return strings.Join(lines, "\n")
}

// CellAt maps coordinates relative to the minical's origin to a date.
func CellAt(m *grid.Model, x, y int) (civil.Date, bool) {
	if m == nil || y < headerLines {
		return civil.Date{}, false
	}
	row := y - headerLines
	col := x / CellWidth
	if row >= len(m.Rows) || col < 0 || col > 6 {
		return civil.Date{}, false
	}
	cell := m.Rows[row][col]
	if !cell.InPeriod {
		return civil.Date{}, false
	}
	return cell.Date, true
}

// header names the weekday columns. Row 1 is used because it is always a
// full in-month week, while row 0 may hold blanked bleed cells.
func header(m *grid.Model) string {
	row := m.Rows[0]
	if len(m.Rows) > 1 {
		row = m.Rows[1]
	}
	var cells []string
	for _, cell := range row {
		cells = append(cells, pad(cell.Date.Weekday().String()[:2], CellWidth))
	}
	return strings.Join(cells, "")
}

func renderDay(cell grid.Cell, opts Options) string {
	if !cell.InPeriod {
		return opts.OutsideStyle.Render(pad("", CellWidth))
	}
	text := fmt.Sprintf("%2d", cell.Date.Day)

	style := opts.DayStyle
	if cell.Weekend {
		style = opts.WeekendStyle
	}
	if opts.Busy != nil && opts.Busy(cell.Date) {
		style = style.Bold(true)
	}
	if cell.Today {
		style = style.Inherit(opts.TodayStyle)
	}
	if opts.Selected != nil && opts.Selected(cell.Date) {
		style = style.Inherit(opts.SelectedStyle)
	}
	return style.Render(pad(text, CellWidth))
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
