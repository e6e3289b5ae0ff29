package options

import (
	"github.com/spf13/cobra"
)

// CalendarOptions
type CalendarOptions struct {
	Calendar string
}

func AddCalendarArgs(cmd *cobra.Command, o *CalendarOptions) {
	cmd.Flags().StringVarP(&o.Calendar, "calendar", "c", "",
		"Specify the calendar the event belongs to.")
}

// IdentifierOptions
type IdentifierOptions struct {
	ShowID bool
}

func AddIdentifierArgs(cmd *cobra.Command, o *IdentifierOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "ids", "i", false,
		"Show event ids.")
}
