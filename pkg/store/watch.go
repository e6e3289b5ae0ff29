package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Notification is emitted by Persistence.Watch when the on-disk store
// changes. An empty Calendar means the whole store should be reread.
type Notification struct {
	Calendar string
}

// Watch streams change notifications until ctx is cancelled. Callers
// should drain the returned channel to avoid losing bursts. The channel is
// closed once ctx is done or the watcher hits an unrecoverable error.
func (p *persistence) Watch(ctx context.Context) (<-chan Notification, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	notifications := make(chan Notification, 64)

	go func() {
		defer close(notifications)
		defer closeWatcher()

		// Track directories we already watch so new calendar buckets can
		// be added at runtime without duplicating watches.
		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(n Notification) {
			select {
			case notifications <- n:
			default:
				// Drop when the consumer lags; the next notification
				// triggers a reread anyway, and this keeps filesystem
				// storms from blocking the watcher goroutine.
			}
		}

		throttle := newNotifyThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Surface watcher errors as a full reread since we cannot
				// classify what changed.
				throttle.Enqueue(Notification{}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						absDir := filepath.Clean(evt.Name)
						if _, found := watched[absDir]; !found {
							if err := watcher.Add(absDir); err != nil {
								fmt.Fprintf(os.Stderr, "store: watch %s: %v\n", absDir, err)
							} else {
								watched[absDir] = struct{}{}
							}
						}
						throttle.Enqueue(Notification{}, send)
						continue
					}
				}

				throttle.Enqueue(Notification{Calendar: p.calendarForPath(evt.Name)}, send)
			}
		}
	}()

	return notifications, nil
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// calendarForPath derives the calendar name from a diskv file path. The
// first path element under the base is the encoded calendar.
func (p *persistence) calendarForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	name := fromCalendar(parts[0])
	if strings.HasPrefix(name, "fromCalendar:") {
		return ""
	}
	return name
}

// notifyThrottle coalesces rapid change notifications so consumers reread
// once per burst of filesystem activity instead of on every single write.
type notifyThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
}

func newNotifyThrottle(delay time.Duration) *notifyThrottle {
	return &notifyThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *notifyThrottle) Enqueue(n Notification, send func(Notification)) {
	t.mu.Lock()
	t.pending[n.Calendar] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *notifyThrottle) flush(send func(Notification)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	// A pending full reread supersedes per-calendar notifications.
	if _, all := pending[""]; all {
		send(Notification{})
		return
	}
	for calendar := range pending {
		send(Notification{Calendar: calendar})
	}
}

func (t *notifyThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
