package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/robfig/cron/v3"

	"tableflip.dev/almanac/pkg/config"
	"tableflip.dev/almanac/pkg/event/ics"
	"tableflip.dev/almanac/pkg/store"
	"tableflip.dev/almanac/pkg/tui/app"
	"tableflip.dev/almanac/pkg/tui/events"
)

// UI runs the interactive calendar.
type UI struct {
	Config      *config.Config
	Persistence store.Persistence
	Feed        *ics.Feed
	Location    *time.Location
}

func (u *UI) Do(ctx context.Context) error {
	model := app.New(app.Options{
		Settings:   u.Config.GridSettings(),
		SlotConfig: u.Config.SlotConfig(),
		Store:      u.Persistence,
		Feed:       u.Feed,
		Location:   u.Location,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())

	// Subscription refreshes run on the configured schedule and land in the
	// update loop as messages, same as a manual refresh keypress.
	if u.Feed != nil && u.Config.RefreshCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(u.Config.RefreshCron, func() {
			p.Send(events.RefreshRequestMsg{Component: "scheduler"})
		}); err != nil {
			return fmt.Errorf("invalid refresh_cron %q: %w", u.Config.RefreshCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	_, err := p.Run()
	return err
}
