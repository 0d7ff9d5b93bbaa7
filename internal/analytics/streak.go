package analytics

import (
	"slices"

	"superoutine/internal/model"
)

// CurrentStreak counts consecutive completed days walking back from ref.
// It is 0 as soon as ref itself is not completed.
func CurrentStreak(days []int, ref int) int {
	streak := 0
	for d := ref; d >= 1 && slices.Contains(days, d); d-- {
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive days in the set.
func LongestStreak(days []int) int {
	sorted := model.Normalize(days, 0)
	longest, run, prev := 0, 0, 0
	for _, d := range sorted {
		if d < 1 {
			continue
		}
		if run > 0 && d == prev+1 {
			run++
		} else {
			run = 1
		}
		prev = d
		longest = max(longest, run)
	}
	return longest
}

// HabitStat is the per-habit summary row.
type HabitStat struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Completed      int    `json:"completed"`
	Goal           int    `json:"goal"`
	Percentage     int    `json:"percentage"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	CompletedToday bool   `json:"completed_today"`
}

// HabitStats summarizes one habit; Percentage is completions vs goal, capped at 100.
func HabitStats(h model.Habit, currentDay int) HabitStat {
	completed := len(h.CompletedDays)
	return HabitStat{
		ID:             h.ID,
		Name:           h.Name,
		Completed:      completed,
		Goal:           h.Goal,
		Percentage:     min(percent(completed, h.Goal), 100),
		CurrentStreak:  CurrentStreak(h.CompletedDays, currentDay),
		LongestStreak:  LongestStreak(h.CompletedDays),
		CompletedToday: currentDay >= 1 && slices.Contains(h.CompletedDays, currentDay),
	}
}

// WeeklyHabitStat is the per-weekly-habit summary row.
type WeeklyHabitStat struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Completed         int    `json:"completed"`
	Goal              int    `json:"goal"`
	Percentage        int    `json:"percentage"`
	CompletedThisWeek bool   `json:"completed_this_week"`
}

func WeeklyHabitStats(w model.WeeklyHabit, currentWeek int) WeeklyHabitStat {
	completed := len(w.CompletedWeeks)
	return WeeklyHabitStat{
		ID:                w.ID,
		Name:              w.Name,
		Completed:         completed,
		Goal:              w.Goal,
		Percentage:        min(percent(completed, w.Goal), 100),
		CompletedThisWeek: currentWeek >= 1 && slices.Contains(w.CompletedWeeks, currentWeek),
	}
}
