// Package printers formats agenda and calendar output for the CLI commands.
package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
)

type PrettyPrint struct {
	ShowID bool
	// Location renders event times; nil means time.Local.
	Location *time.Location
}

var spacing = strings.Repeat(" ", len("171dff69f8b99dca  "))

func (pp *PrettyPrint) loc() *time.Location {
	if pp.Location != nil {
		return pp.Location
	}
	return time.Local
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" event")
	default:
		_, _ = c.Println(" events")
	}
}

// Agenda prints every day of the period that has events, one table of
// events per day. Days without events are skipped.
func (pp *PrettyPrint) Agenda(p event.Period, events []event.Event) {
	any := false
	for d := p.Start; !d.After(p.End); d = d.AddDays(1) {
		day := event.OnDay(events, d)
		if len(day) == 0 {
			continue
		}
		any = true
		pp.Day(d, day)
	}
	if !any {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
	}
}

// Day prints the events of a single date as a table.
func (pp *PrettyPrint) Day(d civil.Date, events []event.Event) {
	h := color.New(color.Bold)
	_, _ = h.Fprintf(color.Output, "%s %s\n", d.Weekday().String()[:3], d)

	tbl := uitable.New()
	tbl.Separator = "  "
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, e := range events {
		cells := []interface{}{pp.timeSpan(e, d), e.Calendar, e.Summary}
		if e.Location != "" {
			cells = append(cells, color.New(color.Faint).Sprintf("@ %s", e.Location))
		}
		if pp.ShowID {
			cells = append([]interface{}{y.Sprint(e.ID)}, cells...)
		}
		tbl.AddRow(cells...)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	fmt.Println("")
}

// timeSpan renders the hours an event occupies on the given date. All-day
// events and full covered middle days collapse to a marker.
func (pp *PrettyPrint) timeSpan(e event.Event, d civil.Date) string {
	if e.AllDay {
		return "all day"
	}
	loc := pp.loc()
	start := e.Start.In(loc)
	end := e.End.In(loc)
	switch {
	case e.StartDate() == d && e.EndDate() == d:
		return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
	case e.StartDate() == d:
		return fmt.Sprintf("%s-...", start.Format("15:04"))
	case e.EndDate() == d:
		return fmt.Sprintf("...-%s", end.Format("15:04"))
	default:
		return "all day"
	}
}
