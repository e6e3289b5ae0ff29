// Package theme centralizes Lip Gloss styles for the calendar UI.
package theme

import (
	"hash/fnv"
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme groups the styles used across the calendar views.
type Theme struct {
	Grid    GridTheme
	Chips   ChipTheme
	TimeCol TimeColumnTheme
	Overlay OverlayTheme
	Footer  FooterTheme
}

// GridTheme styles the date grids (month, year and the week header row).
type GridTheme struct {
	Title       lipgloss.Style
	DayHeader   lipgloss.Style
	WeekNumber  lipgloss.Style
	Cell        lipgloss.Style
	CellOutside lipgloss.Style
	CellWeekend lipgloss.Style
	CellToday   lipgloss.Style
	Selected    lipgloss.Style
	Overflow    lipgloss.Style
}

// ChipTheme styles the all-day/multi-day event chips.
type ChipTheme struct {
	Base      lipgloss.Style
	Continued lipgloss.Style
}

// TimeColumnTheme styles the week/day time grid.
type TimeColumnTheme struct {
	HourAxis     lipgloss.Style
	GridLine     lipgloss.Style
	NowIndicator lipgloss.Style
	Event        lipgloss.Style
	Selected     lipgloss.Style
}

// OverlayTheme styles centered overlays such as quick-add.
type OverlayTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Hint  lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Grid: GridTheme{
			Title:       lipgloss.NewStyle().Bold(true),
			DayHeader:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
			WeekNumber:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Cell:        lipgloss.NewStyle(),
			CellOutside: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			CellWeekend: lipgloss.NewStyle().Foreground(lipgloss.Color("109")),
			CellToday:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Selected:    lipgloss.NewStyle().Reverse(true),
			Overflow:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		},
		Chips: ChipTheme{
			Base:      lipgloss.NewStyle().Bold(true),
			Continued: lipgloss.NewStyle().Faint(true),
		},
		TimeCol: TimeColumnTheme{
			HourAxis:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			GridLine:     lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
			NowIndicator: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Event:        lipgloss.NewStyle().Bold(true),
			Selected:     lipgloss.NewStyle().Reverse(true),
		},
		Overlay: OverlayTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Hint:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}

// CalendarColor derives a stable, readable color for a calendar name. The
// hue comes from a hash of the name; saturation and lightness are fixed so
// every calendar lands in the same legible band.
func CalendarColor(name string) color.Color {
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := float64(h.Sum32() % 360)
	c := colorful.Hsl(hue, 0.55, 0.60)
	return lipgloss.Color(c.Hex())
}

// ChipStyle returns the chip style tinted for one calendar.
func (t Theme) ChipStyle(calendar string) lipgloss.Style {
	return t.Chips.Base.Foreground(CalendarColor(calendar))
}

// EventStyle returns the time-grid event style tinted for one calendar.
func (t Theme) EventStyle(calendar string) lipgloss.Style {
	return t.TimeCol.Event.Foreground(CalendarColor(calendar))
}
