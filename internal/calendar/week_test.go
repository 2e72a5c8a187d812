package calendar

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveWeekStartsOnMonday(t *testing.T) {
	for year := 2023; year <= 2027; year++ {
		for month := time.January; month <= time.December; month++ {
			w := ResolveWeek(year, month, 0)
			if w.Days[0].Weekday() != time.Monday {
				t.Fatalf("ResolveWeek(%d, %s, 0) starts on %s", year, month, w.Days[0].Weekday())
			}
			for i := 1; i < DaysPerWeek; i++ {
				if got := w.Days[i].Sub(w.Days[i-1]); got != 24*time.Hour {
					t.Fatalf("ResolveWeek(%d, %s, 0) gap %d = %s", year, month, i, got)
				}
			}
			first := date(year, month, 1)
			if first.Before(w.Start()) || !first.Before(w.End()) {
				t.Fatalf("ResolveWeek(%d, %s, 0) = %s..%s does not contain the 1st", year, month, w.Start(), w.End())
			}
		}
	}
}

func TestResolveWeekDates(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		month  time.Month
		offset int
		start  time.Time
	}{
		// 1 Oct 2026 is a Thursday.
		{"first week crosses into previous month", 2026, time.October, 0, date(2026, time.September, 28)},
		{"offset advances whole weeks", 2026, time.October, 2, date(2026, time.October, 12)},
		{"last offset rolls into next month", 2026, time.October, 4, date(2026, time.October, 26)},
		// 1 Jan 2027 is a Friday.
		{"year rollover", 2027, time.January, 0, date(2026, time.December, 28)},
		// 1 Jun 2026 is a Monday.
		{"month starting on Monday", 2026, time.June, 0, date(2026, time.June, 1)},
		{"negative offset clamps", 2026, time.June, -3, date(2026, time.June, 1)},
		{"leap February", 2024, time.February, 4, date(2024, time.February, 26)},
	}
	for _, tt := range tests {
		w := ResolveWeek(tt.year, tt.month, tt.offset)
		if !w.Start().Equal(tt.start) {
			t.Errorf("%s: Start() = %s, want %s", tt.name, w.Start().Format("2006-01-02"), tt.start.Format("2006-01-02"))
		}
	}

	w := ResolveWeek(2026, time.October, 4)
	if got := w.Days[6]; !got.Equal(date(2026, time.November, 1)) {
		t.Fatalf("Days[6] = %s, want 2026-11-01", got.Format("2006-01-02"))
	}
}

func TestWeeksInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.October, 5},
		{2026, time.June, 5},
		{2021, time.February, 4}, // starts Monday, 28 days
		{2026, time.March, 6},    // starts Sunday, 31 days
	}
	for _, tt := range tests {
		if got := WeeksInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("WeeksInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestWeekLabelsAndIndex(t *testing.T) {
	w := ResolveWeek(2026, time.October, 0)
	labels := w.Labels()
	if labels[0] != "Mon 28 Sep" || labels[6] != "Sun 4 Oct" {
		t.Fatalf("Labels() = %v", labels)
	}
	if got := w.IndexOf(time.Date(2026, time.October, 1, 15, 30, 0, 0, time.UTC)); got != 3 {
		t.Fatalf("IndexOf(1 Oct) = %d, want 3", got)
	}
	if got := w.IndexOf(date(2026, time.October, 5)); got != -1 {
		t.Fatalf("IndexOf(5 Oct) = %d, want -1", got)
	}
	if _, ok := w.Date(7); ok {
		t.Fatalf("Date(7) ok = true")
	}
}

func TestResolveHourLabels(t *testing.T) {
	want := []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 0, 1, 2, 3, 4, 5, 6}
	if got := ResolveHourLabels(7); !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolveHourLabels(7) = %v, want %v", got, want)
	}

	abs := ResolveHourLabels(0)
	for i, h := range abs {
		if h != i {
			t.Fatalf("ResolveHourLabels(0)[%d] = %d", i, h)
		}
	}

	if got := ResolveHourLabels(31); got[0] != 7 {
		t.Fatalf("ResolveHourLabels(31)[0] = %d, want 7", got[0])
	}
	if got := ResolveHourLabels(-1); got[0] != 23 {
		t.Fatalf("ResolveHourLabels(-1)[0] = %d, want 23", got[0])
	}
}

func TestFormatHour(t *testing.T) {
	if got := FormatHour(7); got != "7:00" {
		t.Fatalf("FormatHour(7) = %q", got)
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		when   time.Time
		offset int
		column int
	}{
		{time.Date(2026, time.October, 17, 23, 59, 0, 0, time.UTC), 2, 5},
		{date(2026, time.October, 1), 0, 3},
		{date(2026, time.October, 31), 4, 5},
		{date(2026, time.June, 1), 0, 0},
	}
	for _, tt := range tests {
		w, col := Locate(tt.when)
		if w.WeekOffset != tt.offset || col != tt.column {
			t.Errorf("Locate(%s) = offset %d column %d, want %d %d", tt.when.Format("2006-01-02"), w.WeekOffset, col, tt.offset, tt.column)
		}
		if w.Month != tt.when.Month() {
			t.Errorf("Locate(%s) month = %s", tt.when.Format("2006-01-02"), w.Month)
		}
	}
}
