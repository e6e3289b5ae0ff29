package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/almanac/pkg/runner/remove"
)

func addRm(topLevel *cobra.Command) {
	var id string

	cmd := &cobra.Command{
		Use:     "rm",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an event from the local store",
		Example: `
almanac rm <event id>
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires an event id")
			}
			id = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			d, err := loadDeps()
			if err != nil {
				return err
			}

			r := remove.Remove{
				ID:          id,
				TimeZone:    d.loc,
				Persistence: d.persist,
			}
			return oo.HandleError(r.Do(context.Background()))
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
