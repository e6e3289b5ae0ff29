package layout

import (
	"sort"
	"time"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
)

// TimeSlot is one timed event placed in a day column. Lane is the slot's
// column index inside its overlap cluster and Lanes is the cluster's total
// width, so the rendered box spans [Lane/Lanes, (Lane+1)/Lanes) of the
// available horizontal space.
type TimeSlot struct {
	EventID string
	Start   time.Time
	End     time.Time
	Lane    int
	Lanes   int
}

// Width is the fraction of the column this slot occupies.
func (s TimeSlot) Width() float64 {
	if s.Lanes <= 0 {
		return 1
	}
	return 1 / float64(s.Lanes)
}

// Offset is the slot's fractional horizontal position within the column.
func (s TimeSlot) Offset() float64 {
	if s.Lanes <= 0 {
		return 0
	}
	return float64(s.Lane) / float64(s.Lanes)
}

// Lanes partitions timed intervals into side-by-side lanes. Intervals are
// placed in a stable order (start ascending, longer first, then event ID)
// onto the lowest-indexed lane whose previous occupant has ended.
// Zero-duration intervals are widened to one minute so they stay visible
// and still conflict with anything at the same instant. Each maximal
// overlapping cluster determines the Lanes count of its members.
func Lanes(intervals []event.Interval) []TimeSlot {
	ivs := make([]event.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.AllDay {
			continue
		}
		if !iv.End.After(iv.Start) {
			iv.End = iv.Start.Add(time.Minute)
		}
		ivs = append(ivs, iv)
	}
	sort.SliceStable(ivs, func(i, j int) bool {
		a, b := ivs[i], ivs[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if ad, bd := a.End.Sub(a.Start), b.End.Sub(b.Start); ad != bd {
			return ad > bd
		}
		return a.ID < b.ID
	})

	slots := make([]TimeSlot, 0, len(ivs))
	var laneEnds []time.Time
	clusterFrom := 0
	clusterLanes := 0

	flush := func(upto int) {
		for i := clusterFrom; i < upto; i++ {
			slots[i].Lanes = clusterLanes
		}
		clusterFrom = upto
		clusterLanes = 0
		laneEnds = laneEnds[:0]
	}

	for _, iv := range ivs {
		// A cluster ends when every active lane has drained before the
		// next interval starts.
		active := false
		for _, end := range laneEnds {
			if end.After(iv.Start) {
				active = true
				break
			}
		}
		if !active && len(slots) > clusterFrom {
			flush(len(slots))
		}

		lane := -1
		for i, end := range laneEnds {
			if !end.After(iv.Start) {
				lane = i
				break
			}
		}
		if lane < 0 {
			laneEnds = append(laneEnds, iv.End)
			lane = len(laneEnds) - 1
		} else {
			laneEnds[lane] = iv.End
		}
		if lane+1 > clusterLanes {
			clusterLanes = lane + 1
		}
		slots = append(slots, TimeSlot{
			EventID: iv.ID,
			Start:   iv.Start,
			End:     iv.End,
			Lane:    lane,
		})
	}
	flush(len(slots))
	return slots
}

// ClipToDay bounds a timed interval to one civil day, for multi-day timed
// events that must render a partial box in each day column they touch.
// The second return is false when the interval misses the day entirely.
func ClipToDay(iv event.Interval, day civil.Date, loc *time.Location) (event.Interval, bool) {
	dayStart := day.Time(loc)
	dayEnd := day.AddDays(1).Time(loc)
	if !iv.End.After(dayStart) || !iv.Start.Before(dayEnd) {
		return event.Interval{}, false
	}
	if iv.Start.Before(dayStart) {
		iv.Start = dayStart
	}
	if iv.End.After(dayEnd) {
		iv.End = dayEnd
	}
	return iv, true
}
