package analytics

import (
	"slices"

	"superoutine/internal/model"
)

// Point is one day of a rate series.
type Point struct {
	Day  int `json:"day"`
	Rate int `json:"rate"`
}

// WeekPoint is one week bucket of daily-habit completions.
type WeekPoint struct {
	Week      int `json:"week"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Rate      int `json:"rate"`
}

// Progress is a completed/possible ratio.
type Progress struct {
	Completed int `json:"completed"`
	Possible  int `json:"possible"`
	Rate      int `json:"rate"`
}

// percent is round(num/den*100) with halves rounded up, 0 when den <= 0.
func percent(num, den int) int {
	if den <= 0 || num <= 0 {
		return 0
	}
	return (200*num + den) / (2 * den)
}

func newProgress(completed, possible int) Progress {
	return Progress{Completed: completed, Possible: possible, Rate: percent(completed, possible)}
}

// completedOn counts habits that include day.
func completedOn(habits []model.Habit, day int) int {
	n := 0
	for _, h := range habits {
		if slices.Contains(h.CompletedDays, day) {
			n++
		}
	}
	return n
}

// completionsBetween counts completions with start <= day <= end across habits.
func completionsBetween(habits []model.Habit, start, end int) int {
	n := 0
	for _, h := range habits {
		for _, d := range h.CompletedDays {
			if d >= start && d <= end {
				n++
			}
		}
	}
	return n
}

// DayRate is the share of habits completed on day, in percent.
func DayRate(habits []model.Habit, day int) int {
	return percent(completedOn(habits, day), len(habits))
}

// WeekRate is the share of weekly habits completed in week, in percent.
func WeekRate(weekly []model.WeeklyHabit, week int) int {
	n := 0
	for _, w := range weekly {
		if slices.Contains(w.CompletedWeeks, week) {
			n++
		}
	}
	return percent(n, len(weekly))
}

// DailySeries returns the day rate for days 1..currentDay.
func DailySeries(habits []model.Habit, currentDay int) []Point {
	series := make([]Point, 0, max(currentDay, 0))
	for d := 1; d <= currentDay; d++ {
		series = append(series, Point{Day: d, Rate: DayRate(habits, d)})
	}
	return series
}

// Trend returns the last n points of series.
func Trend(series []Point, n int) []Point {
	if n <= 0 {
		return []Point{}
	}
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

// WeeklySeries buckets daily completions per week, truncated at currentDay.
// Weeks starting after currentDay are omitted.
func WeeklySeries(habits []model.Habit, p Period, currentDay int) []WeekPoint {
	weeks := make([]WeekPoint, 0, p.NumWeeks())
	for w := 1; w <= p.NumWeeks(); w++ {
		start, end, _ := p.WeekRange(w)
		if start > currentDay {
			break
		}
		end = min(end, currentDay)
		weeks = append(weeks, weekPoint(habits, w, start, end))
	}
	return weeks
}

// WeekProgress buckets daily completions over every full week of the month.
func WeekProgress(habits []model.Habit, p Period) []WeekPoint {
	weeks := make([]WeekPoint, 0, p.NumWeeks())
	for w := 1; w <= p.NumWeeks(); w++ {
		start, end, _ := p.WeekRange(w)
		weeks = append(weeks, weekPoint(habits, w, start, end))
	}
	return weeks
}

func weekPoint(habits []model.Habit, w, start, end int) WeekPoint {
	completed := completionsBetween(habits, start, end)
	total := len(habits) * (end - start + 1)
	return WeekPoint{Week: w, Completed: completed, Total: total, Rate: percent(completed, total)}
}

// AverageRate is the rounded mean of the week rates, 0 for none.
func AverageRate(weeks []WeekPoint) int {
	sum := 0
	for _, w := range weeks {
		sum += w.Rate
	}
	return percent(sum, len(weeks)*100)
}

// WeeklyHabitProgress returns WeekRate for weeks 1..numWeeks.
func WeeklyHabitProgress(weekly []model.WeeklyHabit, numWeeks int) []WeekPoint {
	weeks := make([]WeekPoint, 0, max(numWeeks, 0))
	for w := 1; w <= numWeeks; w++ {
		n := 0
		for _, h := range weekly {
			if slices.Contains(h.CompletedWeeks, w) {
				n++
			}
		}
		weeks = append(weeks, WeekPoint{Week: w, Completed: n, Total: len(weekly), Rate: percent(n, len(weekly))})
	}
	return weeks
}

// MonthlyRate relates all completions up to currentDay to habits × currentDay.
func MonthlyRate(habits []model.Habit, currentDay int) Progress {
	return newProgress(completionsBetween(habits, 1, currentDay), len(habits)*max(currentDay, 0))
}

// OverallProgress relates completions to the goal-capped possible total,
// sum(min(currentDay, goal)).
func OverallProgress(habits []model.Habit, currentDay int) Progress {
	completed, possible := 0, 0
	for _, h := range habits {
		completed += len(h.CompletedDays)
		possible += min(max(currentDay, 0), max(h.Goal, 0))
	}
	return newProgress(completed, possible)
}

// Today summarizes the reference day.
func Today(habits []model.Habit, currentDay int) Progress {
	if currentDay < 1 {
		return newProgress(0, len(habits))
	}
	return newProgress(completedOn(habits, currentDay), len(habits))
}
