// Package config loads almanac's settings: a .almanac yaml file discovered
// via viper, overridable through ALMANAC_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/almanac/pkg/event/ics"
	"tableflip.dev/almanac/pkg/grid"
	"tableflip.dev/almanac/pkg/locale"
	"tableflip.dev/almanac/pkg/selection"
)

// Config is the materialized settings record.
type Config struct {
	Path            string `json:"path"`
	Locale          string `json:"locale"`
	FirstDayOfWeek  string `json:"first_day_of_week"`
	WeekNumbers     bool   `json:"week_numbers"`
	DayStartHour    int    `json:"day_start_hour"`
	DayEndHour      int    `json:"day_end_hour"`
	SlotMinutes     int    `json:"slot_minutes"`
	MaxVisibleLanes int    `json:"max_visible_lanes"`
	RefreshCron     string `json:"refresh_cron"`

	Subscriptions []ics.Subscription `json:"subscriptions"`
}

// Load discovers and reads the config file. A missing file is not an
// error; defaults and environment variables still apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.almanac.db")
	v.SetDefault("locale", "")
	v.SetDefault("first_day_of_week", "")
	v.SetDefault("week_numbers", true)
	v.SetDefault("day_start_hour", 0)
	v.SetDefault("day_end_hour", 24)
	v.SetDefault("slot_minutes", 15)
	v.SetDefault("max_visible_lanes", 3)
	v.SetDefault("refresh_cron", "@every 30m")

	v.SetConfigName(".almanac") // .yaml is implicit
	v.SetEnvPrefix("ALMANAC")
	v.AutomaticEnv()

	if override := v.GetString("config_path"); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Path:            v.GetString("path"),
		Locale:          v.GetString("locale"),
		FirstDayOfWeek:  v.GetString("first_day_of_week"),
		WeekNumbers:     v.GetBool("week_numbers"),
		DayStartHour:    v.GetInt("day_start_hour"),
		DayEndHour:      v.GetInt("day_end_hour"),
		SlotMinutes:     v.GetInt("slot_minutes"),
		MaxVisibleLanes: v.GetInt("max_visible_lanes"),
		RefreshCron:     v.GetString("refresh_cron"),
	}
	if err := v.UnmarshalKey("subscriptions", &cfg.Subscriptions); err != nil {
		return nil, fmt.Errorf("reading subscriptions: %w", err)
	}
	return cfg, nil
}

// BasePath returns the store directory with ~ expanded.
func (c *Config) BasePath() string {
	path, err := homedir.Expand(c.Path)
	if err != nil {
		return c.Path
	}
	return path
}

// Prefs resolves the configured locale, or detects one from the
// environment when unset.
func (c *Config) Prefs() locale.Preferences {
	if c.Locale != "" {
		return locale.Resolve(c.Locale)
	}
	return locale.Detect()
}

// GridSettings converts the config into the grid builder's settings. An
// explicit first_day_of_week wins over the locale's convention.
func (c *Config) GridSettings() grid.Settings {
	prefs := c.Prefs()
	first := prefs.FirstDay
	if d, ok := parseWeekday(c.FirstDayOfWeek); ok {
		first = d
	}
	return grid.Settings{
		FirstDay:        first,
		Locale:          prefs,
		WeekNumbers:     c.WeekNumbers,
		DayStartHour:    c.DayStartHour,
		DayEndHour:      c.DayEndHour,
		SlotMinutes:     c.SlotMinutes,
		MaxVisibleLanes: c.MaxVisibleLanes,
	}
}

// SlotConfig converts the config into the selection machine's geometry.
func (c *Config) SlotConfig() selection.SlotConfig {
	return selection.SlotConfig{
		StartHour:   c.DayStartHour,
		EndHour:     c.DayEndHour,
		SlotMinutes: c.SlotMinutes,
	}
}

func parseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, true
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	}
	return time.Sunday, false
}
