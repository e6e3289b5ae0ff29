package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/timeutil"
)

const layoutClock = "15:04"

// AtOptions
type AtOptions struct {
	AtString  string
	ForString string
}

func AddAtArgs(cmd *cobra.Command, o *AtOptions) {
	cmd.Flags().StringVar(&o.AtString, "at", "",
		`Specify a start time, example: --at="14:30". Omit for an all-day event.`)
	cmd.Flags().StringVar(&o.ForString, "for", "",
		`Specify a duration, example: --for="90m" or --for="2d".`)
}

// GetAt resolves the time-of-day flag on the given date, or nil when the
// event is all-day.
func (o *AtOptions) GetAt(on civil.Date, loc *time.Location) (*time.Time, error) {
	if o.AtString == "" {
		return nil, nil
	}
	clock, err := time.Parse(layoutClock, o.AtString)
	if err != nil {
		return nil, err
	}
	t := on.Time(loc).Add(
		time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	return &t, nil
}

// GetFor resolves the duration flag; zero means unset.
func (o *AtOptions) GetFor() (time.Duration, error) {
	if o.ForString == "" {
		return 0, nil
	}
	d, _, err := timeutil.ParseWindow(o.ForString)
	return d, err
}
