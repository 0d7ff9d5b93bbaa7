package motivation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyQuoteStableForDay(t *testing.T) {
	morning := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 1, 1, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, DailyQuote(morning), DailyQuote(evening))
	// Jan 1 is day 1 of the year
	assert.Equal(t, "Robin Sharma", DailyQuote(morning).Author)
	assert.Equal(t, Quotes()[0], DailyQuote(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Len(t, Quotes(), 15)
}

func TestMood(t *testing.T) {
	m, ok := Mood(1)
	assert.True(t, ok)
	assert.Equal(t, "Tough day", m.Label)
	m, ok = Mood(5)
	assert.True(t, ok)
	assert.Equal(t, "Amazing", m.Label)
	_, ok = Mood(0)
	assert.False(t, ok)
	_, ok = Mood(6)
	assert.False(t, ok)
}

func TestAverageMood(t *testing.T) {
	assert.Equal(t, 0.0, AverageMood(nil))
	assert.Equal(t, 3.0, AverageMood([]int{3}))
	assert.Equal(t, 3.7, AverageMood([]int{3, 4, 4}))
	assert.Equal(t, 4.5, AverageMood([]int{4, 5}))
}

func TestHabitCorrelation(t *testing.T) {
	assert.Equal(t, "Complete a habit and see how it affects your mood!", HabitCorrelation(0, 3))
	assert.Equal(t, "You've done 3/3 habits — that usually means a great mood day!", HabitCorrelation(3, 3))
	assert.Equal(t, "You've done 1/3 habits — every bit counts toward feeling better!", HabitCorrelation(1, 3))
}

func TestFocusMessage(t *testing.T) {
	tests := map[int]string{
		100: "🎉 Perfect day! You crushed it!",
		80:  "🔥 Almost there! Keep pushing!",
		50:  "💪 Halfway done! You got this!",
		25:  "🌱 Good start! Keep going!",
		0:   "☀️ New day, new opportunities!",
	}
	for pct, want := range tests {
		assert.Equal(t, want, FocusMessage(pct), "pct=%d", pct)
	}
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Good morning", Greeting(6))
	assert.Equal(t, "Good afternoon", Greeting(12))
	assert.Equal(t, "Good evening", Greeting(17))
}

func TestCoachMessage(t *testing.T) {
	assert.Equal(t, coach.complete[0], CoachMessage(CoachInput{Percentage: 100}))
	assert.Equal(t, coach.morning[2], CoachMessage(CoachInput{Hour: 7, Seed: 2}))
	assert.Equal(t, coach.low[0], CoachMessage(CoachInput{Hour: 15}))
	assert.Equal(t, "Consistency is your superpower! 5 days strong! 💪",
		CoachMessage(CoachInput{Percentage: 50, CurrentStreak: 5, Seed: 1}))
	// even seeds keep the progress pool
	assert.Equal(t, coach.mid[2], CoachMessage(CoachInput{Percentage: 50, CurrentStreak: 5, Seed: 2}))
}
