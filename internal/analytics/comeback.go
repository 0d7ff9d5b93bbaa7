package analytics

import "superoutine/internal/model"

const comebackPlaceholder = "Start building — every day is a new chance!"

// Comeback measures how often a slump day is followed by a recovery.
// A gap day is a day whose previous day rate was below 30%; a recovery is a
// gap day whose own rate is at least 50%.
type Comeback struct {
	Score     int    `json:"score"`
	Comebacks int    `json:"comebacks"`
	GapDays   int    `json:"gap_days"`
	Defined   bool   `json:"defined"`
	Message   string `json:"message"`
}

// comebackMinDays 少于 3 天时没有可比较的前后两日
const comebackMinDays = 3

// ComputeComeback is defined for a non-empty habit list once three days have elapsed.
func ComputeComeback(habits []model.Habit, ref int) Comeback {
	n := len(habits)
	if n == 0 || ref < comebackMinDays {
		return Comeback{Message: comebackPlaceholder}
	}

	c := Comeback{Defined: true}
	prev := completedOn(habits, 1)
	for d := 2; d <= ref; d++ {
		today := completedOn(habits, d)
		// prev/n < 0.3 and today/n >= 0.5 in integer form
		if 10*prev < 3*n {
			c.GapDays++
			if 2*today >= n {
				c.Comebacks++
			}
		}
		prev = today
	}

	if c.GapDays == 0 {
		c.Score = 100
	} else {
		c.Score = min(percent(c.Comebacks, c.GapDays), 100)
	}
	c.Message = comebackMessage(c.Score)
	return c
}

// comebackMessage 没有 gap 的月份总是 100 分，落在第一档
func comebackMessage(score int) string {
	switch {
	case score >= 80:
		return "Incredible resilience! You never stay down long."
	case score >= 50:
		return "Great comeback energy! Gaps are just pauses, not stops."
	case score >= 20:
		return "You're learning to bounce back — that takes real courage."
	default:
		return "Every return is a victory. Keep showing up!"
	}
}
