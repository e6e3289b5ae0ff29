package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// parsedEvent is one VEVENT with its recurrence material still unexpanded.
type parsedEvent struct {
	sub Subscription

	uid      string
	summary  string
	location string

	start  time.Time
	end    time.Time
	allDay bool

	rawRRule     string
	exDates      []time.Time
	recurrenceID *time.Time
}

func (p parsedEvent) isOverride() bool { return p.recurrenceID != nil }

// parseCalendar extracts the VEVENTs of one ICS payload. Malformed events
// are skipped; the rest of the calendar still parses.
func parseCalendar(sub Subscription, body []byte) ([]parsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty calendar body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out []parsedEvent
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(sub, ve)
		if err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func parseVEvent(sub Subscription, ve *ical.VEvent) (parsedEvent, error) {
	out := parsedEvent{sub: sub}

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("missing UID")
	}
	out.uid = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.location = p.Value
	}

	// The library resolves VTIMEZONE/TZID into the Location of the
	// returned times.
	start, err := ve.GetStartAt()
	if err != nil {
		return out, err
	}
	out.start = start
	if end, err := ve.GetEndAt(); err == nil {
		out.end = end
	} else {
		out.end = start
	}

	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		out.allDay = isDateValue(dtStart)
	}
	if out.allDay {
		// All-day DTEND is exclusive already; a missing or equal DTEND
		// means a single day.
		day := time.Date(out.start.Year(), out.start.Month(), out.start.Day(), 0, 0, 0, 0, out.start.Location())
		out.start = day
		if !out.end.After(out.start) {
			out.end = day.AddDate(0, 0, 1)
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rawRRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, out.start.Location()); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}
	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, err := parseICSTime(p.Value, out.start.Location()); err == nil {
			out.recurrenceID = &t
		}
	}

	return out, nil
}

// isDateValue reports whether a DTSTART property carries a bare date,
// which marks the event all-day.
func isDateValue(p *ical.IANAProperty) bool {
	if vals, ok := p.ICalParameters["VALUE"]; ok && len(vals) > 0 && strings.EqualFold(vals[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// parseICSTime handles the EXDATE/RECURRENCE-ID value forms: UTC
// date-time, floating date-time and bare date.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
