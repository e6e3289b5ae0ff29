// Package grid builds immutable calendar grid descriptors for the month,
// week, day and year views. A Model is computed once per (granularity,
// anchor, settings) and rendered many times; it never changes after Build
// returns.
package grid

import (
	"fmt"
	"time"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/locale"
)

// Granularity is the visible period type.
type Granularity int

const (
	Month Granularity = iota
	Week
	Day
	Year
)

// String names the granularity for titles and debug output.
func (g Granularity) String() string {
	switch g {
	case Month:
		return "month"
	case Week:
		return "week"
	case Day:
		return "day"
	case Year:
		return "year"
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// Settings is the read-only configuration record the builder consumes.
// Any change to it invalidates every cached grid (see grid/cache).
type Settings struct {
	FirstDay        time.Weekday
	Locale          locale.Preferences
	WeekNumbers     bool
	DayStartHour    int // first hour row of the time grid, 0..23
	DayEndHour      int // exclusive last hour row, 1..24
	SlotMinutes     int // drag granularity within an hour
	MaxVisibleLanes int // all-day lanes shown per cell before "+N more"
}

// DefaultSettings returns the configuration used when nothing is stored.
func DefaultSettings() Settings {
	prefs := locale.Resolve("en-US")
	return Settings{
		FirstDay:        prefs.FirstDay,
		Locale:          prefs,
		WeekNumbers:     true,
		DayStartHour:    0,
		DayEndHour:      24,
		SlotMinutes:     15,
		MaxVisibleLanes: 3,
	}
}

// normalize fills unusable zero values so a partially configured Settings
// still produces a valid grid.
func (s Settings) normalize() Settings {
	if s.DayEndHour <= s.DayStartHour {
		s.DayStartHour, s.DayEndHour = 0, 24
	}
	if s.DayStartHour < 0 {
		s.DayStartHour = 0
	}
	if s.DayEndHour > 24 {
		s.DayEndHour = 24
	}
	if s.SlotMinutes <= 0 || s.SlotMinutes > 60 {
		s.SlotMinutes = 15
	}
	if s.MaxVisibleLanes <= 0 {
		s.MaxVisibleLanes = 3
	}
	return s
}

// Cell is a single day position in a grid. Cells are created by Build and
// never mutated afterwards.
type Cell struct {
	Date     civil.Date
	InPeriod bool // date belongs to the anchor month (or week/day/year)
	Today    bool
	Weekend  bool
}

// Model is an immutable grid descriptor.
//
// For Month and Week grids, Rows holds complete weeks of seven cells and
// WeekNumbers carries one ISO week number per row. For Day grids, Rows is a
// single one-cell row and Hours lists the time axis. For Year grids, Months
// holds twelve minimally populated month models (no adjacent-month bleed).
type Model struct {
	Granularity Granularity
	Anchor      civil.Date
	Title       string
	Rows        [][]Cell
	WeekNumbers []int
	Hours       []int
	Months      []*Model
}

// Build constructs the grid for the given granularity and anchor date.
// Inputs are always normalizable, so Build cannot fail.
func Build(g Granularity, anchor, today civil.Date, s Settings) *Model {
	s = s.normalize()
	switch g {
	case Week:
		return buildWeek(anchor, today, s)
	case Day:
		return buildDay(anchor, today, s)
	case Year:
		return buildYear(anchor, today, s)
	default:
		return buildMonth(anchor, today, s)
	}
}

// Contains reports whether the date falls on any cell of the grid,
// including adjacent-month bleed cells.
func (m *Model) Contains(d civil.Date) bool {
	_, _, ok := m.Locate(d)
	return ok
}

// Locate returns the (row, column) of the cell holding the date.
func (m *Model) Locate(d civil.Date) (row, col int, ok bool) {
	for r, cells := range m.Rows {
		for c := range cells {
			if cells[c].Date == d {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// FirstDate returns the earliest date the grid covers.
func (m *Model) FirstDate() civil.Date {
	if m.Granularity == Year {
		return m.Anchor
	}
	return m.Rows[0][0].Date
}

// LastDate returns the latest date the grid covers.
func (m *Model) LastDate() civil.Date {
	if m.Granularity == Year {
		return civil.NewDate(m.Anchor.Year, time.December, 31)
	}
	last := m.Rows[len(m.Rows)-1]
	return last[len(last)-1].Date
}

func buildMonth(anchor, today civil.Date, s Settings) *Model {
	first := civil.NewDate(anchor.Year, anchor.Month, 1)
	start, cells := civil.MonthGridBounds(first.Year, first.Month, s.FirstDay)

	m := &Model{
		Granularity: Month,
		Anchor:      first,
		Title:       fmt.Sprintf("%s %d", first.Month, first.Year),
	}

	d := start
	for offset := 0; offset < cells; offset += 7 {
		row := make([]Cell, 7)
		for c := 0; c < 7; c++ {
			row[c] = newCell(d, d.SameMonth(first), today, s)
			d = d.AddDays(1)
		}
		m.Rows = append(m.Rows, row)
		m.WeekNumbers = append(m.WeekNumbers, rowWeekNumber(row))
	}
	return m
}

func buildWeek(anchor, today civil.Date, s Settings) *Model {
	start := civil.StartOfWeek(anchor, s.FirstDay)
	row := make([]Cell, 7)
	d := start
	for c := 0; c < 7; c++ {
		row[c] = newCell(d, true, today, s)
		d = d.AddDays(1)
	}

	m := &Model{
		Granularity: Week,
		Anchor:      start,
		Rows:        [][]Cell{row},
		WeekNumbers: []int{rowWeekNumber(row)},
		Hours:       hourAxis(s),
	}
	m.Title = weekTitle(row[0].Date, row[6].Date, m.WeekNumbers[0])
	return m
}

func buildDay(anchor, today civil.Date, s Settings) *Model {
	return &Model{
		Granularity: Day,
		Anchor:      anchor,
		Title:       fmt.Sprintf("%s, %s %d %d", anchor.Weekday(), anchor.Month, anchor.Day, anchor.Year),
		Rows:        [][]Cell{{newCell(anchor, true, today, s)}},
		WeekNumbers: []int{civil.ISOWeek(anchor)},
		Hours:       hourAxis(s),
	}
}

func buildYear(anchor, today civil.Date, s Settings) *Model {
	m := &Model{
		Granularity: Year,
		Anchor:      civil.NewDate(anchor.Year, time.January, 1),
		Title:       fmt.Sprintf("%d", anchor.Year),
	}
	for month := time.January; month <= time.December; month++ {
		sub := buildMonth(civil.NewDate(anchor.Year, month, 1), today, s)
		trimAdjacent(sub)
		m.Months = append(m.Months, sub)
	}
	return m
}

// trimAdjacent blanks bleed cells for the year view, which shows each month
// in isolation.
func trimAdjacent(m *Model) {
	for r := range m.Rows {
		for c := range m.Rows[r] {
			if !m.Rows[r][c].InPeriod {
				m.Rows[r][c] = Cell{}
			}
		}
	}
}

func newCell(d civil.Date, inPeriod bool, today civil.Date, s Settings) Cell {
	return Cell{
		Date:     d,
		InPeriod: inPeriod,
		Today:    d == today,
		Weekend:  s.Locale.IsWeekend(d.Weekday()),
	}
}

// rowWeekNumber applies the Thursday-of-row rule: a row's ISO week number
// is the week of whichever of its cells is a Thursday. This matches ISO
// semantics exactly even for rows straddling a year boundary.
func rowWeekNumber(row []Cell) int {
	for _, cell := range row {
		if cell.Date.Weekday() == time.Thursday {
			return civil.ISOWeek(cell.Date)
		}
	}
	// Unreachable for seven-day rows; every full week has a Thursday.
	return civil.ISOWeek(row[0].Date)
}

func hourAxis(s Settings) []int {
	hours := make([]int, 0, s.DayEndHour-s.DayStartHour)
	for h := s.DayStartHour; h < s.DayEndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

func weekTitle(first, last civil.Date, week int) string {
	switch {
	case first.SameMonth(last):
		return fmt.Sprintf("W%d · %s %d – %d, %d", week, first.Month, first.Day, last.Day, first.Year)
	case first.Year == last.Year:
		return fmt.Sprintf("W%d · %s %d – %s %d, %d", week, first.Month, first.Day, last.Month, last.Day, first.Year)
	default:
		return fmt.Sprintf("W%d · %s %d, %d – %s %d, %d", week, first.Month, first.Day, first.Year, last.Month, last.Day, last.Year)
	}
}
