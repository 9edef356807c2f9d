// Package dates provides the calendar arithmetic the statistics engine
// is built on. All functions are pure: "today" is always an explicit
// argument, never read from the wall clock.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the ISO calendar-date form used everywhere in the engine
// and at the storage boundary.
const Layout = "2006-01-02"

// ErrInvalidRange reports a malformed or inverted date range.
var ErrInvalidRange = errors.New("invalid date range")

// Period selects the analytics window granularity.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// Range is a resolved inclusive date window plus its enumerated days.
type Range struct {
	Start string
	End   string
	Dates []string
}

// Parse converts an ISO date string to a midnight UTC time value.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return t, nil
}

// Format renders a time value as an ISO date string.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WeekStart returns the Monday on or before d. Sunday maps six days
// back, every other weekday maps weekday-1 days back.
func WeekStart(d time.Time) time.Time {
	back := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		back = 6
	}
	return d.AddDate(0, 0, -back)
}

// WeekEnd returns the Sunday ending the week containing d.
func WeekEnd(d time.Time) time.Time {
	return WeekStart(d).AddDate(0, 0, 6)
}

// MonthStart returns the first day of d's month.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// MonthEnd returns the last day of d's month.
func MonthEnd(d time.Time) time.Time {
	return MonthStart(d).AddDate(0, 1, -1)
}

// YearStart returns January 1 of d's year.
func YearStart(d time.Time) time.Time {
	return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
}

// YearEnd returns December 31 of d's year.
func YearEnd(d time.Time) time.Time {
	return time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, d.Location())
}

// Enumerate produces the ordered inclusive sequence of ISO dates from
// start to end. An inverted range fails with ErrInvalidRange.
func Enumerate(start, end time.Time) ([]string, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, Format(start), Format(end))
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, Format(d))
	}
	return out, nil
}

// ClampToToday truncates end so a range never extends past today.
func ClampToToday(end, today time.Time) time.Time {
	if end.After(today) {
		return today
	}
	return end
}

// PeriodRange resolves the week/month/year window containing ref,
// clamped so the enumerated dates never pass today. A mid-year "year"
// request therefore yields Jan 1 through today, not Jan 1 through
// Dec 31.
func PeriodRange(period Period, ref, today time.Time) (Range, error) {
	var start, end time.Time
	switch period {
	case PeriodWeek:
		start, end = WeekStart(ref), WeekEnd(ref)
	case PeriodMonth:
		start, end = MonthStart(ref), MonthEnd(ref)
	case PeriodYear:
		start, end = YearStart(ref), YearEnd(ref)
	default:
		return Range{}, fmt.Errorf("%w: unknown period %q", ErrInvalidRange, period)
	}

	end = ClampToToday(end, today)
	days, err := Enumerate(start, end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: Format(start), End: Format(end), Dates: days}, nil
}

// DaysSinceYearStart counts days from Jan 1 of today's year through
// today, inclusive.
func DaysSinceYearStart(today time.Time) int {
	return int(today.Sub(YearStart(today)).Hours()/24) + 1
}
