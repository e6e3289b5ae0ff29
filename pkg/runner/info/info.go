package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/almanac/pkg/config"
	"tableflip.dev/almanac/pkg/store"
)

// Info prints where the configuration and event data live.
type Info struct {
	Config      *config.Config
	Persistence store.Persistence
}

func (n *Info) Do(ctx context.Context) error {

	if override := os.Getenv("ALMANAC_CONFIG_PATH"); override != "" {
		fmt.Println("ALMANAC_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("ALMANAC_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = config.Load()
		if err != nil {
			return err
		}
	}

	fmt.Println("store path: ", n.Config.BasePath())
	fmt.Println("locale: ", n.Config.Locale)
	fmt.Println("refresh: ", n.Config.RefreshCron)
	fmt.Println("subscriptions: ", len(n.Config.Subscriptions))

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	fmt.Printf("Calendars:\n")
	found := 0
	for _, k := range n.Persistence.Calendars(ctx) {
		fmt.Printf("  %s\n", k)
		found++
	}

	if found == 0 {
		fmt.Printf("  %s\n", "no calendars")
	}

	return nil
}
