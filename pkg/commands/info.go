package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show config and storage details",
		Example: `
almanac info
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			d, err := loadDeps()
			if err != nil {
				return err
			}
			i := info.Info{Config: d.cfg, Persistence: d.persist}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
