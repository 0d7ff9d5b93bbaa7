package analytics

import (
	"fmt"
	"time"
)

// Period is a calendar month under view.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// DaysInMonth is the number of days of the month (28..31).
func (p Period) DaysInMonth() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NumWeeks is ceil(daysInMonth / 7); weeks are fixed 7-day buckets from day 1.
func (p Period) NumWeeks() int {
	return (p.DaysInMonth() + 6) / 7
}

// WeekRange returns the first and last day of week w, clamped to the month.
// ok is false when w is outside [1, NumWeeks].
func (p Period) WeekRange(w int) (start, end int, ok bool) {
	if w < 1 || w > p.NumWeeks() {
		return 0, 0, false
	}
	start = (w-1)*7 + 1
	end = min(w*7, p.DaysInMonth())
	return start, end, true
}

// WeekOfDay maps a day to its week bucket, or 0 for day < 1.
func WeekOfDay(day int) int {
	if day < 1 {
		return 0
	}
	return (day-1)/7 + 1
}

// CurrentDay is the reference day for the month: today's date for the current
// month, 0 for a future month and daysInMonth for a past month.
func (p Period) CurrentDay(now time.Time) int {
	cur := PeriodOf(now)
	switch {
	case p == cur:
		return now.Day()
	case p.Year > cur.Year || (p.Year == cur.Year && p.Month > cur.Month):
		return 0
	default:
		return p.DaysInMonth()
	}
}
