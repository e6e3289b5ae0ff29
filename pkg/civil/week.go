package civil

import "time"

// ISOWeek returns the ISO-8601 week number (1..53) of the date. Week 1 is
// the week containing the year's first Thursday; early January dates can
// belong to week 52/53 of the previous year. The week number depends only
// on the Gregorian date, never on a first-day-of-week preference.
func ISOWeek(d Date) int {
	_, week := d.Time(time.UTC).ISOWeek()
	return week
}

// ISOWeekYear returns both the ISO week-numbering year and the week number,
// for callers that need to disambiguate year-boundary weeks.
func ISOWeekYear(d Date) (year, week int) {
	return d.Time(time.UTC).ISOWeek()
}

// StartOfWeek returns the first-day-aligned date on or before d.
func StartOfWeek(d Date, first time.Weekday) Date {
	offset := (int(d.Weekday()) - int(first) + 7) % 7
	return d.AddDays(-offset)
}

// MonthGridBounds computes the cell range a month grid covers: the
// first-day-aligned date on or before the 1st of the month, and a cell
// count that is a multiple of 7 reaching through the month's last day.
func MonthGridBounds(year int, month time.Month, first time.Weekday) (Date, int) {
	firstOfMonth := NewDate(year, month, 1)
	start := StartOfWeek(firstOfMonth, first)
	span := start.DaysUntil(firstOfMonth) + DaysIn(firstOfMonth.Year, firstOfMonth.Month)
	cells := ((span + 6) / 7) * 7
	return start, cells
}
