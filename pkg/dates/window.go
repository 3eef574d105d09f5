// Package dates windows a calendar into the contiguous range of days a
// board displays and queries.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DayFormat = "2006-01-02"

// DefaultDays is the range length used when nothing else is requested.
const DefaultDays = 7

// Window is a contiguous range of local calendar days. The zero value is
// not usable, construct it with EndingToday or EndingOn.
type Window struct {
	Start time.Time
	Days  int
}

// EndingToday returns a window of days consecutive dates whose last date
// is today in local time.
func EndingToday(days int) Window {
	return EndingOn(time.Now(), days)
}

// EndingOn returns a window of days consecutive dates whose last date is
// the local calendar day of last.
func EndingOn(last time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	return Window{
		Start: startOfDay(last).AddDate(0, 0, -(days - 1)),
		Days:  days,
	}
}

// Shift moves the window start by delta days. Arbitrary past and future
// windows are valid, nothing is clamped.
func (w Window) Shift(delta int) Window {
	return Window{Start: w.Start.AddDate(0, 0, delta), Days: w.Days}
}

// Reset returns a window of the same length ending today.
func (w Window) Reset() Window {
	return EndingToday(w.Days)
}

// Sequence lists every date of the window in order as YYYY-MM-DD strings.
func (w Window) Sequence() []string {
	seq := make([]string, 0, w.Days)
	for i := 0; i < w.Days; i++ {
		seq = append(seq, w.Start.AddDate(0, 0, i).Format(DayFormat))
	}
	return seq
}

// Bounds returns the first and last date of the window.
func (w Window) Bounds() (string, string) {
	return w.Start.Format(DayFormat), w.Start.AddDate(0, 0, w.Days-1).Format(DayFormat)
}

// Contains reports whether date (YYYY-MM-DD) falls inside the window.
func (w Window) Contains(date string) bool {
	start, end := w.Bounds()
	return date >= start && date <= end
}

// Label formats a stored date string as "month/day" for display. It works
// on the string itself so the label never drifts from the stored value.
func Label(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return date
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d", month, day)
}

// Labels returns the display label for every date of the window.
func (w Window) Labels() []string {
	seq := w.Sequence()
	labels := make([]string, 0, len(seq))
	for _, d := range seq {
		labels = append(labels, Label(d))
	}
	return labels
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
