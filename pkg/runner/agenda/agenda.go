package agenda

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/grid"
	"tableflip.dev/almanac/pkg/printers"
)

// Agenda prints the events of a date range, one day at a time.
type Agenda struct {
	ShowID   bool
	From     civil.Date
	Days     int
	Calendar string // empty means every calendar
	Month    bool   // print the month-at-a-glance block too

	TimeZone *time.Location
	Sources  []event.Source
	Grid     grid.Settings
}

func (a *Agenda) Do(ctx context.Context) error {
	if len(a.Sources) == 0 {
		return errors.New("can not list events, no sources")
	}
	days := a.Days
	if days < 1 {
		days = 1
	}
	period := event.Period{Start: a.From, End: a.From.AddDays(days - 1)}

	var all []event.Event
	for _, src := range a.Sources {
		evs, err := src.Events(ctx, period)
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name(), err)
		}
		all = append(all, evs...)
	}
	if a.Calendar != "" {
		kept := all[:0]
		for _, e := range all {
			if e.Calendar == a.Calendar {
				kept = append(kept, e)
			}
		}
		all = kept
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Start.Equal(all[j].Start) {
			return all[i].Start.Before(all[j].Start)
		}
		return all[i].ID < all[j].ID
	})

	pp := printers.PrettyPrint{ShowID: a.ShowID, Location: a.TimeZone}
	fmt.Println("")

	title := a.From.String()
	if days > 1 {
		title = fmt.Sprintf("%s to %s", a.From, period.End)
	}
	pp.TitleWithCount(title, len(all))
	pp.NewLine()
	if a.Month {
		pp.Calendar(a.From, a.Grid, all)
	}
	pp.Agenda(period, all)

	return nil
}
