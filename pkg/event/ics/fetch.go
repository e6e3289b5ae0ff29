// Package ics turns iCalendar subscriptions into calendar events. A Feed
// fetches each subscription over HTTP or from a local file, parses the
// VEVENTs once, and expands recurrences on demand for whatever period the
// caller asks about.
package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	// maxBodyBytes caps a single ICS download. Feeds past this are broken
	// or hostile either way.
	maxBodyBytes = 8 << 20

	fetchTimeout = 15 * time.Second
)

// Subscription is one remote calendar to pull events from.
type Subscription struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
}

// Feed serves events from a set of ICS subscriptions. Fetched calendars
// are held parsed in memory; Refresh replaces them. Feed is safe for
// concurrent use.
type Feed struct {
	subs   []Subscription
	client *http.Client
	loc    *time.Location

	mu     sync.RWMutex
	parsed map[string][]parsedEvent
}

// NewFeed returns a Feed over subs. Occurrence times are materialized in
// loc; nil means time.Local.
func NewFeed(subs []Subscription, loc *time.Location) *Feed {
	if loc == nil {
		loc = time.Local
	}
	return &Feed{
		subs:   subs,
		client: &http.Client{Timeout: fetchTimeout},
		loc:    loc,
		parsed: make(map[string][]parsedEvent),
	}
}

// Name implements event.Source.
func (f *Feed) Name() string { return "ics" }

// Refresh downloads and reparses every subscription. Subscriptions that
// fail keep their previous events; the errors are joined and returned.
func (f *Feed) Refresh(ctx context.Context) error {
	var errs []error
	for _, sub := range f.subs {
		body, err := f.fetch(ctx, sub)
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", sub.ID, err))
			continue
		}
		events, err := parseCalendar(sub, body)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", sub.ID, err))
			continue
		}
		f.mu.Lock()
		f.parsed[sub.ID] = events
		f.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (f *Feed) fetch(ctx context.Context, sub Subscription) ([]byte, error) {
	if sub.URL == "" {
		return nil, errors.New("subscription has no URL")
	}
	if path, ok := localPath(sub.URL); ok {
		return readLocal(path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sub.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", redactURL(sub.URL), resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, fmt.Errorf("fetching %s: body exceeds %d bytes", redactURL(sub.URL), maxBodyBytes)
	}
	return body, nil
}

// localPath reports whether the subscription points at a file on disk:
// either a file:// URL or a bare path with no scheme.
func localPath(u string) (string, bool) {
	if rest, ok := strings.CutPrefix(u, "file://"); ok {
		return rest, true
	}
	if !strings.Contains(u, "://") {
		return u, true
	}
	return "", false
}

func readLocal(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	body, err := io.ReadAll(io.LimitReader(fh, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, fmt.Errorf("reading %s: body exceeds %d bytes", path, maxBodyBytes)
	}
	return body, nil
}

// redactURL trims an ICS URL to its host for error messages. Private feed
// URLs routinely embed access tokens.
func redactURL(u string) string {
	rest := u
	if i := strings.Index(u, "://"); i >= 0 {
		rest = u[i+3:]
	}
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
