// Package timeutil provides the calendar math for reporting periods:
// named period resolution anchored on "now" and bucket partitioning for
// time series. Weeks start on Monday (ISO 8601).
package timeutil

import (
	"fmt"
	"time"
)

// Period is a named reporting period resolved against the current time.
type Period int

const (
	PeriodToday Period = iota
	PeriodYesterday
	PeriodThisWeek
	PeriodLastWeek
	PeriodThisMonth
	PeriodLastMonth
	PeriodThisYear
	PeriodLastYear
)

var periodNames = map[Period]string{
	PeriodToday:     "today",
	PeriodYesterday: "yesterday",
	PeriodThisWeek:  "week",
	PeriodLastWeek:  "last-week",
	PeriodThisMonth: "month",
	PeriodLastMonth: "last-month",
	PeriodThisYear:  "year",
	PeriodLastYear:  "last-year",
}

// String returns the CLI-facing name of the period.
func (p Period) String() string {
	if name, ok := periodNames[p]; ok {
		return name
	}
	return fmt.Sprintf("period(%d)", int(p))
}

// ParsePeriod parses a CLI period argument.
func ParsePeriod(input string) (Period, error) {
	for p, name := range periodNames {
		if input == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown period %q (use today, yesterday, week, last-week, month, last-month, year, last-year)", input)
}

// Range resolves the period to a [start, end] instant pair anchored on
// now. Current periods (today, this week/month/year) end at the end of
// today; past periods cover their full calendar span.
func (p Period) Range(now time.Time) (start, end time.Time) {
	switch p {
	case PeriodToday:
		return StartOfDay(now), EndOfDay(now)
	case PeriodYesterday:
		y := now.AddDate(0, 0, -1)
		return StartOfDay(y), EndOfDay(y)
	case PeriodThisWeek:
		return StartOfWeek(now), EndOfDay(now)
	case PeriodLastWeek:
		monday := StartOfWeek(now).AddDate(0, 0, -7)
		return monday, EndOfDay(monday.AddDate(0, 0, 6))
	case PeriodThisMonth:
		return StartOfMonth(now), EndOfDay(now)
	case PeriodLastMonth:
		first := StartOfMonth(now).AddDate(0, -1, 0)
		return first, EndOfMonth(first)
	case PeriodThisYear:
		return StartOfYear(now), EndOfDay(now)
	case PeriodLastYear:
		first := StartOfYear(now).AddDate(-1, 0, 0)
		return first, EndOfYear(first)
	default:
		return StartOfDay(now), EndOfDay(now)
	}
}

// Bucket is one sub-interval of a reporting period, used to build a
// time series. Start and End are inclusive bounds.
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

// Buckets partitions the period's calendar span into chart buckets:
// hourly for single days, daily for weeks and months, monthly for
// years. The span is anchored on the period's start, so a running week
// still yields all 7 days and a running year all 12 months.
func (p Period) Buckets(now time.Time) []Bucket {
	start, _ := p.Range(now)
	switch p {
	case PeriodToday, PeriodYesterday:
		day := StartOfDay(start)
		out := make([]Bucket, 0, 24)
		for hour := 0; hour < 24; hour++ {
			bucketStart := day.Add(time.Duration(hour) * time.Hour)
			out = append(out, Bucket{
				Label: fmt.Sprintf("%02d:00", hour),
				Start: bucketStart,
				End:   bucketStart.Add(time.Hour - time.Nanosecond),
			})
		}
		return out
	case PeriodThisWeek, PeriodLastWeek:
		monday := StartOfWeek(start)
		out := make([]Bucket, 0, 7)
		for day := 0; day < 7; day++ {
			dayStart := monday.AddDate(0, 0, day)
			out = append(out, Bucket{
				Label: dayStart.Format("01/02"),
				Start: dayStart,
				End:   EndOfDay(dayStart),
			})
		}
		return out
	case PeriodThisMonth, PeriodLastMonth:
		first := StartOfMonth(start)
		days := DaysInMonth(first)
		out := make([]Bucket, 0, days)
		for day := 0; day < days; day++ {
			dayStart := first.AddDate(0, 0, day)
			out = append(out, Bucket{
				Label: dayStart.Format("01/02"),
				Start: dayStart,
				End:   EndOfDay(dayStart),
			})
		}
		return out
	case PeriodThisYear, PeriodLastYear:
		first := StartOfYear(start)
		out := make([]Bucket, 0, 12)
		for month := 0; month < 12; month++ {
			monthStart := first.AddDate(0, month, 0)
			out = append(out, Bucket{
				Label: monthStart.Format("01"),
				Start: monthStart,
				End:   EndOfMonth(monthStart),
			})
		}
		return out
	default:
		return nil
	}
}

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the given day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// StartOfWeek returns Monday 00:00:00 of the week containing the given
// time. Handles the Sunday edge case where Go's Weekday() returns 0.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return StartOfDay(t).AddDate(0, 0, -(weekday - 1))
}

// StartOfMonth returns the first day of the month at 00:00:00.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last nanosecond of the last day of the month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// StartOfYear returns January 1st at 00:00:00 of the year containing t.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// EndOfYear returns the last nanosecond of December 31st.
func EndOfYear(t time.Time) time.Time {
	return StartOfYear(t).AddDate(1, 0, 0).Add(-time.Nanosecond)
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	return StartOfMonth(t).AddDate(0, 1, 0).AddDate(0, 0, -1).Day()
}

// LastNDays returns the range covering the n complete days ending
// today, inclusive.
func LastNDays(n int, now time.Time) (start, end time.Time) {
	return StartOfDay(now.AddDate(0, 0, -(n - 1))), EndOfDay(now)
}

// IsInRange checks if t falls within [start, end] inclusive.
func IsInRange(t, start, end time.Time) bool {
	return (t.Equal(start) || t.After(start)) && (t.Equal(end) || t.Before(end))
}
