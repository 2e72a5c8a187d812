// Package calendar resolves which real dates the week grid shows.
package calendar

import (
	"fmt"
	"time"
)

// DaysPerWeek is the number of columns in a resolved week.
const DaysPerWeek = 7

// Week is the visible week: seven consecutive dates starting on a Monday.
type Week struct {
	Year       int
	Month      time.Month
	WeekOffset int
	Days       [DaysPerWeek]time.Time
}

// ResolveWeek returns the week shown for (year, month, weekOffset). The first
// week is the one containing the 1st of the month, anchored on Monday; each
// offset advances one whole week. Dates cross month and year boundaries freely.
func ResolveWeek(year int, month time.Month, weekOffset int) Week {
	if weekOffset < 0 {
		weekOffset = 0
	}
	start := MondayOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)).AddDate(0, 0, 7*weekOffset)

	w := Week{Year: year, Month: month, WeekOffset: weekOffset}
	for i := range w.Days {
		w.Days[i] = start.AddDate(0, 0, i)
	}
	return w
}

// MondayOf returns midnight of the Monday on or before t.
func MondayOf(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-back, 0, 0, 0, 0, t.Location())
}

// WeeksInMonth returns how many Monday-anchored weeks touch the month. Valid
// week offsets for the month are 0 through WeeksInMonth-1.
func WeeksInMonth(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	span := last.Sub(MondayOf(first)).Hours() / 24
	return int(span)/7 + 1
}

// Start returns the Monday of the week.
func (w Week) Start() time.Time {
	return w.Days[0]
}

// End returns the exclusive end of the week (the following Monday).
func (w Week) End() time.Time {
	return w.Days[0].AddDate(0, 0, DaysPerWeek)
}

// Date returns the date for a day column. ok is false outside 0..6.
func (w Week) Date(day int) (time.Time, bool) {
	if day < 0 || day >= DaysPerWeek {
		return time.Time{}, false
	}
	return w.Days[day], true
}

// Labels returns the column headings, e.g. "Mon 2 Jan".
func (w Week) Labels() []string {
	labels := make([]string, DaysPerWeek)
	for i, d := range w.Days {
		labels[i] = d.Format("Mon 2 Jan")
	}
	return labels
}

// IndexOf returns the column showing date d, or -1 when d is outside the week.
func (w Week) IndexOf(d time.Time) int {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	for i, wd := range w.Days {
		if wd.Equal(day) {
			return i
		}
	}
	return -1
}

// ResolveHourLabels returns the 24 hours of a day in display order, starting
// at startHour and wrapping past midnight.
func ResolveHourLabels(startHour int) []int {
	start := ((startHour % 24) + 24) % 24
	hours := make([]int, 24)
	for i := range hours {
		hours[i] = (start + i) % 24
	}
	return hours
}

// FormatHour renders an hour row heading, e.g. "7:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%d:00", hour)
}

// Locate returns the week of t's own month that shows t, and t's column.
func Locate(t time.Time) (Week, int) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	offset := int(day.Sub(MondayOf(first)).Hours()/24) / 7
	w := ResolveWeek(t.Year(), t.Month(), offset)
	return w, w.IndexOf(day)
}
