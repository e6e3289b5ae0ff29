// Package layout arranges a period's events into non-overlapping visual
// positions: lane assignments for all-day/multi-day chips on date grids and
// side-by-side columns for timed events on the time grid. Both algorithms
// are deterministic: identical inputs always produce identical output.
package layout

import (
	"sort"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/grid"
)

// SpanKind classifies a chip segment within one grid row.
type SpanKind int

const (
	// SpanSingle means the row contains both the event's start and end.
	SpanSingle SpanKind = iota
	// SpanFirst means the row contains the start but the event continues.
	SpanFirst
	// SpanMiddle means the event entered before this row and leaves after.
	SpanMiddle
	// SpanLast means the row contains the event's final day.
	SpanLast
)

// Slot is one rendered chip segment: an event's contiguous run of columns
// within a single row, placed on a lane. A multi-day event wrapping across
// rows gets one Slot per row it touches.
type Slot struct {
	EventID  string
	Row      int
	StartCol int
	EndCol   int
	Lane     int
	Kind     SpanKind
	Hidden   bool
}

// SpanLayout is the full arrangement of date-spanning events on a grid.
type SpanLayout struct {
	Slots []Slot
	// RowLanes is the number of lanes occupied in each row, including
	// hidden ones.
	RowLanes []int
	// Overflow counts hidden chips per cell, for "+N more" affordances.
	Overflow [][]int
}

// SlotsForRow returns the row's slots in lane order.
func (l SpanLayout) SlotsForRow(row int) []Slot {
	var out []Slot
	for _, s := range l.Slots {
		if s.Row == row {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Lane != out[j].Lane {
			return out[i].Lane < out[j].Lane
		}
		return out[i].StartCol < out[j].StartCol
	})
	return out
}

type segment struct {
	id       string
	startCol int
	endCol   int
	kind     SpanKind
}

// Spans lays out every all-day or multi-day interval on the grid. Each
// such interval projects to a column segment per row it overlaps; segments
// are colored greedily onto lanes, lowest free lane first, in a stable
// order (start column, longer first, then event ID). Segments past
// maxLanes are marked hidden and counted per cell instead of drawn.
func Spans(m *grid.Model, intervals []event.Interval, maxLanes int) SpanLayout {
	if maxLanes <= 0 {
		maxLanes = 1
	}
	layout := SpanLayout{
		RowLanes: make([]int, len(m.Rows)),
		Overflow: make([][]int, len(m.Rows)),
	}

	for row, cells := range m.Rows {
		layout.Overflow[row] = make([]int, len(cells))
		if len(cells) == 0 {
			continue
		}
		rowFirst := cells[0].Date
		rowLast := cells[len(cells)-1].Date

		segments := projectRow(intervals, rowFirst, rowLast, len(cells))
		sort.SliceStable(segments, func(i, j int) bool {
			a, b := segments[i], segments[j]
			if a.startCol != b.startCol {
				return a.startCol < b.startCol
			}
			if al, bl := a.endCol-a.startCol, b.endCol-b.startCol; al != bl {
				return al > bl
			}
			return a.id < b.id
		})

		// Greedy interval-graph coloring: occupied[col] is the set of
		// lanes already holding a chip at that column.
		occupied := make([]map[int]bool, len(cells))
		for c := range occupied {
			occupied[c] = make(map[int]bool)
		}

		for _, seg := range segments {
			lane := 0
			for {
				free := true
				for c := seg.startCol; c <= seg.endCol; c++ {
					if occupied[c][lane] {
						free = false
						break
					}
				}
				if free {
					break
				}
				lane++
			}
			for c := seg.startCol; c <= seg.endCol; c++ {
				occupied[c][lane] = true
			}
			if lane+1 > layout.RowLanes[row] {
				layout.RowLanes[row] = lane + 1
			}

			hidden := lane >= maxLanes
			if hidden {
				for c := seg.startCol; c <= seg.endCol; c++ {
					layout.Overflow[row][c]++
				}
			}
			layout.Slots = append(layout.Slots, Slot{
				EventID:  seg.id,
				Row:      row,
				StartCol: seg.startCol,
				EndCol:   seg.endCol,
				Lane:     lane,
				Kind:     seg.kind,
				Hidden:   hidden,
			})
		}
	}
	return layout
}

// projectRow clips each spanning interval to one row's date range and
// records whether the row holds the event's true start and end.
func projectRow(intervals []event.Interval, rowFirst, rowLast civil.Date, width int) []segment {
	var out []segment
	for _, iv := range intervals {
		if !iv.AllDay && !iv.SpansDays() {
			continue // timed single-day events belong to the time grid
		}
		start, end := iv.StartDate(), iv.EndDate()
		if end.Before(rowFirst) || start.After(rowLast) {
			continue
		}
		clippedStart := civil.Max(start, rowFirst)
		clippedEnd := civil.Min(end, rowLast)
		seg := segment{
			id:       iv.ID,
			startCol: rowFirst.DaysUntil(clippedStart),
			endCol:   rowFirst.DaysUntil(clippedEnd),
		}
		if seg.startCol < 0 || seg.endCol >= width || seg.startCol > seg.endCol {
			continue
		}
		hasStart := !start.Before(rowFirst)
		hasEnd := !end.After(rowLast)
		switch {
		case hasStart && hasEnd:
			seg.kind = SpanSingle
		case hasStart:
			seg.kind = SpanFirst
		case hasEnd:
			seg.kind = SpanLast
		default:
			seg.kind = SpanMiddle
		}
		out = append(out, seg)
	}
	return out
}
