package motivation

import (
	"fmt"
	"math"
)

// MoodLabel 1..5 的心情标签
type MoodLabel struct {
	Value int    `json:"value"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

var moods = [...]MoodLabel{
	{1, "😔", "Tough day"},
	{2, "😐", "Meh"},
	{3, "🙂", "Okay"},
	{4, "😊", "Good"},
	{5, "🤩", "Amazing"},
}

// Mood returns the label of a mood value; ok is false outside 1..5.
func Mood(value int) (MoodLabel, bool) {
	if value < 1 || value > len(moods) {
		return MoodLabel{}, false
	}
	return moods[value-1], true
}

// AverageMood is the mean of the given moods rounded to one decimal, 0 when empty.
func AverageMood(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return math.Round(float64(sum)/float64(len(values))*10) / 10
}

// HabitCorrelation relates today's completions to the mood check-in.
func HabitCorrelation(completedToday, totalHabits int) string {
	if completedToday <= 0 || totalHabits <= 0 {
		return "Complete a habit and see how it affects your mood!"
	}
	tail := "every bit counts toward feeling better!"
	if completedToday >= totalHabits {
		tail = "that usually means a great mood day!"
	}
	return fmt.Sprintf("You've done %d/%d habits — %s", completedToday, totalHabits, tail)
}
