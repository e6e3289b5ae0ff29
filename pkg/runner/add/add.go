package add

import (
	"context"
	"time"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/printers"
	"tableflip.dev/almanac/pkg/store"
)

// Add creates a local event from the command line.
type Add struct {
	Summary  string
	Calendar string
	Location string

	On       civil.Date
	At       *time.Time // nil means all-day
	Duration time.Duration

	TimeZone    *time.Location
	Persistence store.Persistence
}

func (a *Add) Do(ctx context.Context) error {
	loc := a.TimeZone
	if loc == nil {
		loc = time.Local
	}

	e := event.Event{
		Summary:  a.Summary,
		Calendar: a.Calendar,
		Location: a.Location,
	}
	if a.At != nil {
		e.Start = *a.At
		dur := a.Duration
		if dur <= 0 {
			dur = time.Hour
		}
		e.End = e.Start.Add(dur)
	} else {
		e.AllDay = true
		e.Start = a.On.Time(loc)
		days := int(a.Duration / (24 * time.Hour))
		if days < 1 {
			days = 1
		}
		e.End = a.On.AddDays(days).Time(loc)
	}

	if err := a.Persistence.Save(&e); err != nil {
		return err
	}

	pp := printers.PrettyPrint{Location: loc}
	pp.Title(e.Calendar)
	day := event.OnDay(a.Persistence.List(ctx), e.StartDate())
	pp.Day(e.StartDate(), day)
	return nil
}
