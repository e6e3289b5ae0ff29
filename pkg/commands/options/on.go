package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/civil"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2026-2-28" or --on="2/28".`)
}

// GetOn resolves the flag to a date, defaulting to today. Short forms
// without a year pick the next occurrence of that day.
func (o *OnOptions) GetOn() (civil.Date, error) {
	now := time.Now()
	if o.OnString == "" {
		return civil.DateOf(now), nil
	}
	t, err := time.Parse(layoutISO, o.OnString)
	if err != nil {
		t, err = time.Parse(layoutISOShort, o.OnString)
		if err != nil {
			return civil.Date{}, err
		}
		t = t.AddDate(now.Year(), 0, 0)
		if t.Before(now) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return civil.DateOf(t), nil
}
