package commands

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(almanac completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(almanac completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func calendarCompletions(toComplete string) []string {
	d, err := loadDeps()
	if err != nil {
		return nil
	}
	var out []string
	for _, c := range d.persist.Calendars(context.Background()) {
		if toComplete == "" || len(c) >= len(toComplete) && c[:len(toComplete)] == toComplete {
			out = append(out, strconv.Quote(c))
		}
	}
	return out
}
