// Package bucket maps timestamps onto weekly and monthly rollup keys
package bucket

import "time"

// WeekStart is the Monday of t's week as a date string
func WeekStart(t time.Time) string {
	t = t.UTC()
	back := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -back).Format("2006-01-02")
}

// MonthKey is t's month as "2006-01"
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
