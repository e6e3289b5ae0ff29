package commands

import (
	"time"

	"tableflip.dev/almanac/pkg/config"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/event/ics"
	"tableflip.dev/almanac/pkg/store"
)

// deps bundles what every command needs: the resolved configuration, the
// local event store, and the subscription feed (nil without subscriptions).
type deps struct {
	cfg     *config.Config
	persist store.Persistence
	feed    *ics.Feed
	loc     *time.Location
}

func loadDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg.BasePath())
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, persist: p, loc: time.Local}
	if len(cfg.Subscriptions) > 0 {
		d.feed = ics.NewFeed(cfg.Subscriptions, d.loc)
	}
	return d, nil
}

func (d *deps) sources() []event.Source {
	out := []event.Source{d.persist}
	if d.feed != nil {
		out = append(out, d.feed)
	}
	return out
}
