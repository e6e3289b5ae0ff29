package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/grid"
)

const monthWidth = len("11 12 13 14 15 16 17") // an example week

// Calendar prints a month-at-a-glance for the month containing on, with
// busy days highlighted.
func (pp *PrettyPrint) Calendar(on civil.Date, s grid.Settings, events []event.Event) {
	m := grid.Build(grid.Month, on, civil.DateOf(time.Now().In(pp.loc())), s)
	pp.PrintMonth(m, events)
}

// CalendarYear prints all twelve month blocks of the year containing on.
func (pp *PrettyPrint) CalendarYear(on civil.Date, s grid.Settings, events []event.Event) {
	y := grid.Build(grid.Year, on, civil.DateOf(time.Now().In(pp.loc())), s)
	for _, m := range y.Months {
		pp.PrintMonth(m, events)
	}
}

// PrintMonth renders one month grid, bolding days that have at least one
// event and underlining today.
func (pp *PrettyPrint) PrintMonth(m *grid.Model, events []event.Event) {
	busy := make(map[civil.Date]bool)
	for _, e := range events {
		for d := e.StartDate(); !d.After(e.EndDate()); d = d.AddDays(1) {
			busy[d] = true
		}
	}

	tf := color.New(color.FgWhite, color.Italic)
	name := m.Anchor.Month.String()
	mid := (monthWidth - len(name)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Printf("%s%s\n", strings.Repeat(" ", mid), name)

	quiet := color.New(color.Faint, color.FgWhite)
	loud := color.New(color.Bold, color.FgHiWhite)
	today := color.New(color.Bold, color.FgHiWhite, color.Underline)

	for _, row := range m.Rows {
		for _, cell := range row {
			if cell.Date.IsZero() || !cell.InPeriod {
				fmt.Print("   ")
				continue
			}
			printer := quiet
			switch {
			case cell.Today:
				printer = today
			case busy[cell.Date]:
				printer = loud
			}
			_, _ = printer.Printf("%2d ", cell.Date.Day)
		}
		fmt.Print("\n")
	}
	fmt.Print("\n")
}
