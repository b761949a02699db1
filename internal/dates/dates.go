// Package dates provides the canonical YYYY-MM-DD date key every other
// package indexes progress and override sets with. Keys compare
// correctly as plain strings, so date ordering elsewhere is string
// ordering.
package dates

import "time"

const KeyLayout = "2006-01-02"

// Key formats a date as its local calendar-day key. No timezone
// conversion happens; the key is whatever year/month/day the time
// already carries.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// Parse turns a date key back into a midnight local time. Malformed
// keys report ok=false rather than an error; callers treat them as
// "no date".
func Parse(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(KeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns the whole-day difference b-a between two calendar
// days. Both are re-anchored to noon UTC first so DST shifts in local
// time can never skew the division.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 12, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 12, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// Weekday returns the 0=Sunday..6=Saturday index used by schedule rules.
func Weekday(t time.Time) int {
	return int(t.Weekday())
}
