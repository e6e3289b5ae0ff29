package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/printers"
)

func addCalendars(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "List local calendars and subscriptions",
		Example: `
almanac calendars
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			d, err := loadDeps()
			if err != nil {
				return err
			}

			pp := printers.PrettyPrint{}
			fmt.Println("")
			pp.Title("Calendars")
			for _, c := range d.persist.Calendars(context.Background()) {
				fmt.Println(" ", c)
			}
			if len(d.cfg.Subscriptions) > 0 {
				pp.NewLine()
				pp.Title("Subscriptions")
				for _, s := range d.cfg.Subscriptions {
					name := s.Name
					if name == "" {
						name = s.ID
					}
					fmt.Println(" ", name)
				}
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
