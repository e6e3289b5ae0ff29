package remove

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/printers"
	"tableflip.dev/almanac/pkg/store"
)

// Remove deletes a stored event by ID.
type Remove struct {
	ID string

	TimeZone    *time.Location
	Persistence store.Persistence
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Persistence == nil {
		return errors.New("can not remove, no persistence")
	}

	e, ok := r.Persistence.Get(ctx, r.ID)
	if !ok {
		return fmt.Errorf("no event with id %q", r.ID)
	}
	if err := r.Persistence.Delete(e); err != nil {
		return err
	}

	loc := r.TimeZone
	if loc == nil {
		loc = time.Local
	}

	pp := printers.PrettyPrint{ShowID: true, Location: loc}
	pp.Title(e.Calendar)
	day := event.OnDay(r.Persistence.List(ctx), e.StartDate())
	pp.Day(e.StartDate(), day)
	return nil
}
