package analytics

import "superoutine/internal/model"

// Snapshot is the immutable input of one dashboard computation.
type Snapshot struct {
	Period       Period
	CurrentDay   int
	Habits       []model.Habit
	WeeklyHabits []model.WeeklyHabit
	TotalXP      int
}

// Dashboard bundles every derived metric for one snapshot.
// Values returned by Memo are shared and must be treated as read-only.
type Dashboard struct {
	Period            string            `json:"period"`
	CurrentDay        int               `json:"current_day"`
	DaysInMonth       int               `json:"days_in_month"`
	NumWeeks          int               `json:"num_weeks"`
	Today             Progress          `json:"today"`
	Overall           Progress          `json:"overall"`
	Monthly           Progress          `json:"monthly"`
	Habits            []HabitStat       `json:"habits"`
	WeeklyHabits      []WeeklyHabitStat `json:"weekly_habits"`
	DailyTrend        []Point           `json:"daily_trend"`
	WeekProgress      []WeekPoint       `json:"week_progress"`
	AvgWeeklyProgress int               `json:"avg_weekly_progress"`
	WeeklySeries      []WeekPoint       `json:"weekly_series"`
	WeeklyHabitWeeks  []WeekPoint       `json:"weekly_habit_weeks"`
	Momentum          Momentum          `json:"momentum"`
	Comeback          Comeback          `json:"comeback"`
	Stats             Stats             `json:"stats"`
	Badges            []Badge           `json:"badges"`
	Insights          Insights          `json:"insights"`
}

// TrendDays is the length of the daily trend chart.
const TrendDays = 14

// Compute derives the dashboard. It is pure and safe for concurrent use.
func Compute(s Snapshot) Dashboard {
	day := s.CurrentDay
	series := DailySeries(s.Habits, day)
	weeks := WeekProgress(s.Habits, s.Period)
	stats := Aggregate(s.Habits, day, s.TotalXP)

	d := Dashboard{
		Period:            s.Period.String(),
		CurrentDay:        day,
		DaysInMonth:       s.Period.DaysInMonth(),
		NumWeeks:          s.Period.NumWeeks(),
		Today:             Today(s.Habits, day),
		Overall:           OverallProgress(s.Habits, day),
		Monthly:           MonthlyRate(s.Habits, day),
		Habits:            make([]HabitStat, 0, len(s.Habits)),
		WeeklyHabits:      make([]WeeklyHabitStat, 0, len(s.WeeklyHabits)),
		DailyTrend:        Trend(series, TrendDays),
		WeekProgress:      weeks,
		AvgWeeklyProgress: AverageRate(weeks),
		WeeklySeries:      WeeklySeries(s.Habits, s.Period, day),
		WeeklyHabitWeeks:  WeeklyHabitProgress(s.WeeklyHabits, s.Period.NumWeeks()),
		Momentum:          ComputeMomentum(s.Habits, day),
		Comeback:          ComputeComeback(s.Habits, day),
		Stats:             stats,
		Badges:            Badges(stats),
		Insights:          ComputeInsights(series, s.Habits, day),
	}
	for _, h := range s.Habits {
		d.Habits = append(d.Habits, HabitStats(h, day))
	}
	for _, w := range s.WeeklyHabits {
		d.WeeklyHabits = append(d.WeeklyHabits, WeeklyHabitStats(w, WeekOfDay(day)))
	}
	return d
}
