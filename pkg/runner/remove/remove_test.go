package remove

import (
	"context"
	"strings"
	"testing"
	"time"

	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/store"
)

func TestRemoveDeletesStoredEvent(t *testing.T) {
	p, err := store.Load(t.TempDir())
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	e := &event.Event{
		Summary: "dentist",
		Start:   time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.March, 14, 11, 0, 0, 0, time.UTC),
	}
	if err := p.Save(e); err != nil {
		t.Fatalf("save: %v", err)
	}

	r := &Remove{ID: e.ID, TimeZone: time.UTC, Persistence: p}
	if err := r.Do(context.Background()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := p.Get(context.Background(), e.ID); ok {
		t.Fatalf("event should be gone after remove")
	}
}

func TestRemoveUnknownID(t *testing.T) {
	p, err := store.Load(t.TempDir())
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	r := &Remove{ID: "nope", Persistence: p}
	err = r.Do(context.Background())
	if err == nil || !strings.Contains(err.Error(), `no event with id "nope"`) {
		t.Fatalf("expected unknown-id error, got %v", err)
	}
}

func TestRemoveWithoutPersistence(t *testing.T) {
	r := &Remove{ID: "x"}
	if err := r.Do(context.Background()); err == nil {
		t.Fatalf("expected error without persistence")
	}
}
