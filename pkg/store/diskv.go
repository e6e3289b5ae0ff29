// Package store persists locally created events on disk, one JSON document
// per event, grouped by calendar. It doubles as an event source for the
// views and supports change notification via filesystem watching.
package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/almanac/pkg/event"
)

// DefaultCalendar receives events created without an explicit calendar.
const DefaultCalendar = "personal"

// Persistence is the contract for the local event store.
type Persistence interface {
	Save(e *event.Event) error
	Delete(e event.Event) error
	Get(ctx context.Context, id string) (event.Event, bool)
	List(ctx context.Context) []event.Event
	Calendars(ctx context.Context) []string
	Events(ctx context.Context, p event.Period) ([]event.Event, error)
	Name() string
	Watch(ctx context.Context) (<-chan Notification, error)
}

// Load creates a Persistence backed by diskv rooted at basePath.
func Load(basePath string) (Persistence, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// Name implements event.Source.
func (p *persistence) Name() string { return "store" }

// Save writes the event, minting an ID when it has none. Empty calendars
// fall back to DefaultCalendar.
func (p *persistence) Save(e *event.Event) error {
	if e == nil {
		return errors.New("store: nil event")
	}
	if e.Summary == "" {
		return errors.New("store: event needs a summary")
	}
	if e.Calendar == "" {
		e.Calendar = DefaultCalendar
	}
	if !e.AllDay && !e.End.After(e.Start) {
		return fmt.Errorf("store: event %q ends before it starts", e.Summary)
	}
	if e.ID == "" {
		e.ID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(*e), data)
}

// Delete erases the stored event. Missing events are not an error.
func (p *persistence) Delete(e event.Event) error {
	if e.ID == "" {
		return errors.New("store: event has no ID")
	}
	if e.Calendar == "" {
		e.Calendar = DefaultCalendar
	}
	err := p.d.Erase(toKey(e))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Get finds one event by ID, scanning all calendars.
func (p *persistence) Get(ctx context.Context, id string) (event.Event, bool) {
	for _, e := range p.List(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return event.Event{}, false
}

// List returns every stored event sorted by start time.
func (p *persistence) List(ctx context.Context) []event.Event {
	all := make([]event.Event, 0)
	for key := range p.d.Keys(ctx.Done()) {
		e, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, e)
	}
	sortEvents(all)
	return all
}

// Events implements event.Source over the stored events.
func (p *persistence) Events(ctx context.Context, period event.Period) ([]event.Event, error) {
	var out []event.Event
	for _, e := range p.List(ctx) {
		if period.Overlaps(e.StartDate(), e.EndDate()) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Calendars lists the distinct calendar names in the store.
func (p *persistence) Calendars(ctx context.Context) []string {
	seen := map[string]bool{}
	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 {
			continue
		}
		seen[fromCalendar(pk.Path[0])] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (p *persistence) read(key string) (event.Event, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return event.Event{}, err
	}
	var e event.Event
	if err := json.Unmarshal(val, &e); err != nil {
		return event.Event{}, err
	}
	if e.ID == "" {
		e.ID = keyToPathTransform(key).FileName
	}
	return e, nil
}

func sortEvents(events []event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `calendar-yyyy-mm-dd-id`. Event IDs carry no dashes, so the
// final segment always maps back to the ID.
func toKey(e event.Event) string {
	return fmt.Sprintf("%s-%s-%s", toCalendar(e.Calendar), e.StartDate(), e.ID)
}

func toCalendar(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func fromCalendar(s string) string {
	name, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromCalendar: %s", err)
	}
	return string(name)
}
