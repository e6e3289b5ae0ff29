package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/commands/options"
	"tableflip.dev/almanac/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	no := &options.OnOptions{}
	ao := &options.AtOptions{}
	co := &options.CalendarOptions{}
	var location string

	var summary string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Example: `
almanac add lunch with sam --on="3/14" --at="12:30" --for="1h"
almanac add offsite --on="2026-9-2" --for="72h" -c work
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires an event summary")
			}
			summary = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			d, err := loadDeps()
			if err != nil {
				return err
			}

			on, err := no.GetOn()
			if err != nil {
				return err
			}
			at, err := ao.GetAt(on, d.loc)
			if err != nil {
				return err
			}
			dur, err := ao.GetFor()
			if err != nil {
				return err
			}

			a := add.Add{
				Summary:     summary,
				Calendar:    co.Calendar,
				Location:    location,
				On:          on,
				At:          at,
				Duration:    dur,
				TimeZone:    d.loc,
				Persistence: d.persist,
			}
			return oo.HandleError(a.Do(context.Background()))
		},
	}

	options.AddOnArgs(cmd, no)
	options.AddAtArgs(cmd, ao)
	options.AddCalendarArgs(cmd, co)
	cmd.Flags().StringVar(&location, "location", "", "Specify where the event takes place.")

	flagName := "calendar"
	_ = cmd.RegisterFlagCompletionFunc(flagName, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return calendarCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
