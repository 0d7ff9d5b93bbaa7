package analytics

import "superoutine/internal/model"

// Stats are the aggregates badges are evaluated against.
type Stats struct {
	TotalCompletions int `json:"total_completions"`
	MaxStreak        int `json:"max_streak"`
	PerfectDays      int `json:"perfect_days"`
	TotalXP          int `json:"total_xp"`
}

// Aggregate derives badge stats from the current habit list.
func Aggregate(habits []model.Habit, currentDay, totalXP int) Stats {
	s := Stats{TotalXP: totalXP, PerfectDays: PerfectDays(habits, currentDay)}
	for _, h := range habits {
		s.TotalCompletions += len(h.CompletedDays)
		s.MaxStreak = max(s.MaxStreak, LongestStreak(h.CompletedDays))
	}
	return s
}

// PerfectDays counts days in [1, currentDay] on which every habit was completed.
func PerfectDays(habits []model.Habit, currentDay int) int {
	if len(habits) == 0 {
		return 0
	}
	n := 0
	for d := 1; d <= currentDay; d++ {
		if completedOn(habits, d) == len(habits) {
			n++
		}
	}
	return n
}

// Badge is recomputed from Stats every time; there is no stored unlock flag.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
	Progress    int    `json:"progress"`
	Current     int    `json:"current"`
	Threshold   int    `json:"threshold"`
}

type badgeRule struct {
	id, name, description string
	threshold             int
	value                 func(Stats) int
}

var badgeRules = []badgeRule{
	{"first-step", "First Step", "Complete your first habit", 1, func(s Stats) int { return s.TotalCompletions }},
	{"streak-3", "On a Roll", "3-day streak", 3, func(s Stats) int { return s.MaxStreak }},
	{"streak-7", "Week Warrior", "7-day streak", 7, func(s Stats) int { return s.MaxStreak }},
	{"perfect-day", "Perfect Day", "Complete all habits in one day", 1, func(s Stats) int { return s.PerfectDays }},
	{"dedicated", "Dedicated", "50 total completions", 50, func(s Stats) int { return s.TotalCompletions }},
	{"xp-500", "XP Hunter", "Earn 500 XP", 500, func(s Stats) int { return s.TotalXP }},
}

// Badges evaluates every badge. Progress is floored, so it reads 100 only once earned.
func Badges(s Stats) []Badge {
	badges := make([]Badge, 0, len(badgeRules))
	for _, r := range badgeRules {
		v := max(r.value(s), 0)
		badges = append(badges, Badge{
			ID:          r.id,
			Name:        r.name,
			Description: r.description,
			Earned:      v >= r.threshold,
			Progress:    min(v*100/r.threshold, 100),
			Current:     v,
			Threshold:   r.threshold,
		})
	}
	return badges
}

// EarnedIDs lists the ids of earned badges.
func EarnedIDs(badges []Badge) []string {
	ids := []string{}
	for _, b := range badges {
		if b.Earned {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
