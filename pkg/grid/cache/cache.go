// Package cache memoizes grid models per visible period so navigation never
// rebuilds a grid it has already produced. The cache is an explicitly owned
// object held by the application model and threaded through the update
// cycle; there is no process-wide instance.
package cache

import (
	"time"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/grid"
)

// Key identifies one cache entry. Bucket normalizes the anchor to the
// coarsest date the granularity needs, so every anchor inside the same
// period shares an entry.
type Key struct {
	Granularity grid.Granularity
	Bucket      civil.Date
}

// Cache memoizes grid.Build outputs. Entries survive navigation; any
// settings change or a change of the "today" reference clears the whole
// cache rather than patching entries (entries are cheap to rebuild and the
// working set is a handful of visible periods, so no LRU is needed).
type Cache struct {
	settings grid.Settings
	today    civil.Date
	entries  map[Key]*grid.Model
	builds   int
}

// New creates an empty cache bound to the given settings.
func New(settings grid.Settings) *Cache {
	return &Cache{
		settings: settings,
		entries:  make(map[Key]*grid.Model),
	}
}

// BucketFor normalizes an anchor date for the granularity: first of month,
// start of week (per the first-day setting), the date itself, or January 1.
func (c *Cache) BucketFor(g grid.Granularity, anchor civil.Date) civil.Date {
	switch g {
	case grid.Month:
		return civil.NewDate(anchor.Year, anchor.Month, 1)
	case grid.Week:
		return civil.StartOfWeek(anchor, c.settings.FirstDay)
	case grid.Year:
		return civil.NewDate(anchor.Year, time.January, 1)
	default:
		return anchor
	}
}

// GetOrBuild returns the cached grid for the period containing anchor,
// building it at most once per (granularity, bucket) between invalidations.
func (c *Cache) GetOrBuild(g grid.Granularity, anchor civil.Date) *grid.Model {
	key := Key{Granularity: g, Bucket: c.BucketFor(g, anchor)}
	if m, ok := c.entries[key]; ok {
		return m
	}
	m := grid.Build(g, key.Bucket, c.today, c.settings)
	c.entries[key] = m
	c.builds++
	return m
}

// SetSettings replaces the configuration and clears every entry. A no-op
// when the settings are unchanged.
func (c *Cache) SetSettings(s grid.Settings) {
	if s == c.settings {
		return
	}
	c.settings = s
	c.Clear()
}

// Settings returns the configuration grids are currently built with.
func (c *Cache) Settings() grid.Settings {
	return c.settings
}

// SetToday updates the "today" reference used to stamp cells. Cached grids
// carry stale today flags once the date rolls over, so a change clears the
// cache.
func (c *Cache) SetToday(d civil.Date) {
	if d == c.today {
		return
	}
	c.today = d
	c.Clear()
}

// Clear evicts every entry. The build counter is kept so tests can observe
// rebuild behavior across invalidations.
func (c *Cache) Clear() {
	c.entries = make(map[Key]*grid.Model)
}

// Builds reports how many grids have been constructed since New.
func (c *Cache) Builds() int {
	return c.builds
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
