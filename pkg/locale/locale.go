// Package locale resolves calendar display conventions from a locale tag:
// which day starts the week, which days count as weekend, and whether hours
// render in 12- or 24-hour form. These are presentation preferences only;
// ISO week numbering is fixed by the standard and never consults them.
package locale

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Preferences captures the resolved conventions for one locale.
type Preferences struct {
	Tag            string
	FirstDay       time.Weekday
	WeekendDays    [2]time.Weekday
	TwentyFourHour bool
}

// regions where weeks conventionally start on Sunday. Everything not listed
// here (or in fridayFirst/satFirst) starts on Monday, which is also the
// fallback for unknown locales.
var sundayFirst = map[string]bool{
	"US": true, "CA": true, "JP": true, "KR": true, "TW": true,
	"IL": true, "IN": true, "PH": true, "MX": true, "BR": true,
	"CO": true, "PE": true, "ZA": true, "AU": true,
}

var saturdayFirst = map[string]bool{
	"EG": true, "DZ": true, "BH": true, "IQ": true, "JO": true,
	"KW": true, "LY": true, "OM": true, "QA": true, "SA": true,
	"SY": true, "AE": true, "YE": true,
}

// regions observing a Friday/Saturday weekend.
var fridaySaturdayWeekend = map[string]bool{
	"EG": true, "DZ": true, "BH": true, "IQ": true, "JO": true,
	"KW": true, "LY": true, "OM": true, "QA": true, "SA": true,
	"SY": true, "YE": true,
}

var twelveHourRegions = map[string]bool{
	"US": true, "CA": true, "AU": true, "NZ": true, "PH": true,
	"IN": true, "PK": true, "BD": true, "EG": true, "SA": true,
	"MX": true, "CO": true,
}

// Detect resolves preferences from the process environment (LC_TIME,
// LC_ALL, LANG, in that order), falling back to en-US.
func Detect() Preferences {
	tag := os.Getenv("LC_TIME")
	if tag == "" {
		tag = os.Getenv("LC_ALL")
	}
	if tag == "" {
		tag = os.Getenv("LANG")
	}
	if tag == "" {
		tag = "en-US"
	}
	return Resolve(tag)
}

// Resolve parses a BCP-47 or POSIX locale tag ("en-US", "de_DE.UTF-8") and
// returns the calendar conventions for its region. Unparseable tags fall
// back to Monday-first, Saturday/Sunday weekend, 24-hour time.
func Resolve(tag string) Preferences {
	p := Preferences{
		Tag:            tag,
		FirstDay:       time.Monday,
		WeekendDays:    [2]time.Weekday{time.Saturday, time.Sunday},
		TwentyFourHour: true,
	}

	region, ok := regionOf(tag)
	if !ok {
		return p
	}

	switch {
	case sundayFirst[region]:
		p.FirstDay = time.Sunday
	case saturdayFirst[region]:
		p.FirstDay = time.Saturday
	}
	if fridaySaturdayWeekend[region] {
		p.WeekendDays = [2]time.Weekday{time.Friday, time.Saturday}
	}
	if twelveHourRegions[region] {
		p.TwentyFourHour = false
	}
	return p
}

// IsWeekend reports whether the weekday is a rest day in this locale.
func (p Preferences) IsWeekend(d time.Weekday) bool {
	return d == p.WeekendDays[0] || d == p.WeekendDays[1]
}

// FormatHour renders an hour-of-day label for the time grid axis.
func (p Preferences) FormatHour(hour int) string {
	if p.TwentyFourHour {
		return fmt.Sprintf("%02d:00", hour)
	}
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// regionOf extracts the region subtag, tolerating POSIX suffixes like
// ".UTF-8" and "@euro" and underscore separators.
func regionOf(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	if tag == "" || strings.EqualFold(tag, "C") || strings.EqualFold(tag, "POSIX") {
		return "", false
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	region, conf := t.Region()
	if conf == language.No || !region.IsCountry() {
		return "", false
	}
	return region.String(), true
}
