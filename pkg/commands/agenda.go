package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/commands/options"
	"tableflip.dev/almanac/pkg/runner/agenda"
)

func addAgenda(topLevel *cobra.Command) {
	no := &options.OnOptions{}
	co := &options.CalendarOptions{}
	io := &options.IdentifierOptions{}
	var days int
	var month bool

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print upcoming events",
		Example: `
almanac agenda
almanac agenda --days=7 -c work
almanac agenda --on="2026-9-1" --days=30 --month
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			d, err := loadDeps()
			if err != nil {
				return err
			}
			from, err := no.GetOn()
			if err != nil {
				return err
			}

			a := agenda.Agenda{
				ShowID:   io.ShowID,
				From:     from,
				Days:     days,
				Calendar: co.Calendar,
				Month:    month,
				TimeZone: d.loc,
				Sources:  d.sources(),
				Grid:     d.cfg.GridSettings(),
			}
			return oo.HandleError(a.Do(context.Background()))
		},
	}

	options.AddOnArgs(cmd, no)
	options.AddCalendarArgs(cmd, co)
	options.AddIdentifierArgs(cmd, io)
	cmd.Flags().IntVar(&days, "days", 1, "How many days to list.")
	cmd.Flags().BoolVar(&month, "month", false, "Include a month-at-a-glance block.")

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
