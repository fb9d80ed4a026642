// Package datemath holds the pure calendar arithmetic the week grid is built
// on. Everything operates on local wall-clock fields; converting to UTC here
// would shift the hour-of-day boundaries the layout projector depends on.
package datemath

import "time"

// MondayOf returns the Monday 00:00 of the week containing t, in t's
// location. Sunday counts as day 7 of the week, not day 0.
func MondayOf(t time.Time) time.Time {
	day := int(t.Weekday())
	diff := day - 1
	if day == 0 {
		diff = 6
	}
	return time.Date(t.Year(), t.Month(), t.Day()-diff, 0, 0, 0, 0, t.Location())
}

// AddDays returns t shifted by n calendar days. The argument is not mutated;
// time.Date renormalizes day overflow the same way the month/year fields roll.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ISOWeekNumber returns the ISO-8601 week-of-year index for t: shift to the
// Thursday of t's week, then count days since that year's January 1st.
func ISOWeekNumber(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	d = d.AddDate(0, 0, 4-weekday)
	yearStart := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(yearStart).Hours()/24) + 1
	return (days + 6) / 7
}
