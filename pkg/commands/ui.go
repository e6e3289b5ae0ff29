package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the interactive calendar",
		Example: `
almanac ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			d, err := loadDeps()
			if err != nil {
				return err
			}
			i := ui.UI{
				Config:      d.cfg,
				Persistence: d.persist,
				Feed:        d.feed,
				Location:    d.loc,
			}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
