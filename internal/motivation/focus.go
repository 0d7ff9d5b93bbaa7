package motivation

import (
	"strconv"
	"strings"
)

// FocusMessage 今日进度提示
func FocusMessage(percentage int) string {
	switch {
	case percentage >= 100:
		return "🎉 Perfect day! You crushed it!"
	case percentage >= 75:
		return "🔥 Almost there! Keep pushing!"
	case percentage >= 50:
		return "💪 Halfway done! You got this!"
	case percentage >= 25:
		return "🌱 Good start! Keep going!"
	default:
		return "☀️ New day, new opportunities!"
	}
}

// Greeting by local hour.
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

var coach = struct {
	morning, low, mid, high, complete, streak []string
}{
	morning: []string{
		"Rise and shine! 🌅 A new day means new opportunities to build great habits.",
		"Good morning, champion! Every habit you complete today is a step toward your best self.",
		"The early bird gets the worm! Let's make today count.",
	},
	low: []string{
		"Hey, I noticed you're a bit behind today. No worries! Start with just one small habit.",
		"Every expert was once a beginner. Pick one habit and crush it!",
		"Remember: progress, not perfection. Let's get one win today! 💪",
	},
	mid: []string{
		"You're making great progress! Keep that momentum going!",
		"Halfway there! You've got this. Finish strong today! 🔥",
		"Your consistency is inspiring. Let's complete a few more!",
	},
	high: []string{
		"WOW! You're on fire today! 🔥 Almost at 100%!",
		"Incredible work! You're building unstoppable momentum!",
		"You're crushing it! This is what champions look like!",
	},
	complete: []string{
		"🎉 AMAZING! You've completed all habits today! You're unstoppable!",
		"100% completion! You're a habit-building machine! 🏆",
		"Perfect day! Your future self is going to thank you!",
	},
	streak: []string{
		"Your {streak}-day streak is incredible! Keep it going!",
		"Consistency is your superpower! {streak} days strong! 💪",
		"{streak} days of dedication. You're rewriting your story!",
	},
}

// CoachInput 生成教练消息所需的上下文
type CoachInput struct {
	Percentage    int
	Hour          int
	CurrentStreak int
	// Seed selects within a message pool; callers pass e.g. the day of year so the
	// message is stable for a day.
	Seed int
}

// CoachMessage picks an encouragement for the current progress. Streaks of 3+ days
// replace the progress message on odd seeds.
func CoachMessage(in CoachInput) string {
	seed := in.Seed
	if seed < 0 {
		seed = -seed
	}
	if in.CurrentStreak >= 3 && seed%2 == 1 {
		msg := coach.streak[seed%len(coach.streak)]
		return strings.ReplaceAll(msg, "{streak}", strconv.Itoa(in.CurrentStreak))
	}

	var pool []string
	switch {
	case in.Percentage >= 100:
		pool = coach.complete
	case in.Percentage >= 70:
		pool = coach.high
	case in.Percentage >= 40:
		pool = coach.mid
	case in.Percentage > 0:
		pool = coach.low
	case in.Hour < 12:
		pool = coach.morning
	default:
		pool = coach.low
	}
	return pool[seed%len(pool)]
}
