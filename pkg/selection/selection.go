// Package selection tracks an in-progress drag over the calendar surface
// and turns it into a normalized range when released. The machine is pure
// state: it never talks to the terminal, so the interactive model can feed
// it mouse events and tests can feed it fabricated ones.
package selection

import (
	"time"

	"tableflip.dev/almanac/pkg/civil"
)

// Mode names what kind of drag is in flight.
type Mode int

const (
	// Idle means no drag is active.
	Idle Mode = iota
	// DateRange is a drag across day cells on a month or year grid.
	DateRange
	// TimeRange is a drag across time slots within one day column.
	TimeRange
)

func (m Mode) String() string {
	switch m {
	case DateRange:
		return "date-range"
	case TimeRange:
		return "time-range"
	default:
		return "idle"
	}
}

// SlotConfig describes the time grid's vertical resolution. Slot indexes
// count SlotMinutes steps from StartHour.
type SlotConfig struct {
	StartHour   int
	EndHour     int
	SlotMinutes int
}

// DefaultSlotConfig matches the default day view: 00:00 to 24:00 in
// 30-minute steps.
func DefaultSlotConfig() SlotConfig {
	return SlotConfig{StartHour: 0, EndHour: 24, SlotMinutes: 30}
}

func (c SlotConfig) normalize() SlotConfig {
	if c.SlotMinutes <= 0 {
		c.SlotMinutes = 30
	}
	if c.StartHour < 0 {
		c.StartHour = 0
	}
	if c.EndHour <= c.StartHour || c.EndHour > 24 {
		c.EndHour = 24
	}
	return c
}

// slotCount is the number of selectable slots in a day column.
func (c SlotConfig) slotCount() int {
	return (c.EndHour - c.StartHour) * 60 / c.SlotMinutes
}

func (c SlotConfig) clamp(slot int) int {
	if slot < 0 {
		return 0
	}
	if max := c.slotCount() - 1; slot > max {
		return max
	}
	return slot
}

// slotTime converts a slot index to a wall-clock time on the given day.
func (c SlotConfig) slotTime(day civil.Date, slot int, loc *time.Location) time.Time {
	minutes := c.StartHour*60 + slot*c.SlotMinutes
	return day.Time(loc).Add(time.Duration(minutes) * time.Minute)
}

// Range is a committed selection. For date selections Start and End are
// midnights and AllDay is true; for time selections they carry the exact
// dragged times. End is exclusive and always after Start.
type Range struct {
	Start  time.Time
	End    time.Time
	AllDay bool
}

// StartDate returns the first selected day.
func (r Range) StartDate() civil.Date { return civil.DateOf(r.Start) }

// EndDate returns the last selected day.
func (r Range) EndDate() civil.Date {
	if r.AllDay {
		return civil.DateOf(r.End).AddDays(-1)
	}
	return civil.DateOf(r.End.Add(-time.Nanosecond))
}

// Machine is the drag state machine. The zero value is idle with default
// slot geometry; use New to supply configuration.
type Machine struct {
	cfg SlotConfig
	loc *time.Location

	mode Mode

	// date drag
	anchorDate  civil.Date
	currentDate civil.Date

	// time drag
	day         civil.Date
	anchorSlot  int
	currentSlot int
}

// New returns an idle machine using cfg for time-slot geometry and loc for
// materializing committed ranges.
func New(cfg SlotConfig, loc *time.Location) *Machine {
	if loc == nil {
		loc = time.Local
	}
	return &Machine{cfg: cfg.normalize(), loc: loc}
}

// Mode reports the active drag kind.
func (m *Machine) Mode() Mode { return m.mode }

// Active reports whether any drag is in flight.
func (m *Machine) Active() bool { return m.mode != Idle }

// StartDate begins a date-range drag anchored at d. Any drag already in
// flight is discarded first.
func (m *Machine) StartDate(d civil.Date) {
	m.reset()
	m.mode = DateRange
	m.anchorDate = d
	m.currentDate = d
}

// StartTime begins a time-range drag on one day column. The slot index is
// clamped into the configured day window.
func (m *Machine) StartTime(day civil.Date, slot int) {
	m.reset()
	m.mode = TimeRange
	m.day = day
	m.anchorSlot = m.cfg.clamp(slot)
	m.currentSlot = m.anchorSlot
}

// UpdateDate moves the free end of a date drag. Ignored unless a date drag
// is active.
func (m *Machine) UpdateDate(d civil.Date) {
	if m.mode != DateRange {
		return
	}
	m.currentDate = d
}

// UpdateTime moves the free end of a time drag within the anchored day.
// Ignored unless a time drag is active.
func (m *Machine) UpdateTime(slot int) {
	if m.mode != TimeRange {
		return
	}
	m.currentSlot = m.cfg.clamp(slot)
}

// Preview returns the range the drag currently covers, normalized the same
// way Release would commit it. ok is false while idle.
func (m *Machine) Preview() (r Range, ok bool) {
	switch m.mode {
	case DateRange:
		return m.dateRange(), true
	case TimeRange:
		return m.timeRange(), true
	default:
		return Range{}, false
	}
}

// Release ends the drag and commits its normalized range. A backward drag
// commits the same range as its forward mirror. A plain click commits the
// minimum unit: one day for date drags, one slot for time drags. ok is
// false when no drag was active.
func (m *Machine) Release() (r Range, ok bool) {
	r, ok = m.Preview()
	m.reset()
	return r, ok
}

// Cancel abandons the drag without committing anything.
func (m *Machine) Cancel() {
	m.reset()
}

func (m *Machine) reset() {
	m.mode = Idle
	m.anchorDate = civil.Date{}
	m.currentDate = civil.Date{}
	m.day = civil.Date{}
	m.anchorSlot = 0
	m.currentSlot = 0
}

func (m *Machine) dateRange() Range {
	first := civil.Min(m.anchorDate, m.currentDate)
	last := civil.Max(m.anchorDate, m.currentDate)
	return Range{
		Start:  first.Time(m.loc),
		End:    last.AddDays(1).Time(m.loc),
		AllDay: true,
	}
}

func (m *Machine) timeRange() Range {
	lo, hi := m.anchorSlot, m.currentSlot
	if hi < lo {
		lo, hi = hi, lo
	}
	// A click selects the slot under the cursor, so the exclusive end is
	// one slot past the higher index.
	return Range{
		Start: m.cfg.slotTime(m.day, lo, m.loc),
		End:   m.cfg.slotTime(m.day, hi+1, m.loc),
	}
}
