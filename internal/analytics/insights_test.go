package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superoutine/internal/model"
)

func TestInsights(t *testing.T) {
	habits := []model.Habit{habit("a", span(1, 10)...), habit("b", 1, 2, 3)}
	series := DailySeries(habits, 10)

	in := ComputeInsights(series, habits, 10)

	assert.Equal(t, 65, in.AverageDaily)
	assert.Equal(t, 50, in.RecentAverage)
	assert.Equal(t, 100, in.OlderAverage)
	assert.Equal(t, -50, in.Trend)
	assert.Equal(t, "down", in.TrendDirection)
	assert.Equal(t, Point{Day: 1, Rate: 100}, in.BestDay)
	assert.Equal(t, 3, in.PerfectDays)
	require.NotNil(t, in.TopHabit)
	require.NotNil(t, in.WorstHabit)
	assert.Equal(t, HabitRate{ID: "a", Name: "habit a", Rate: 100}, *in.TopHabit)
	assert.Equal(t, HabitRate{ID: "b", Name: "habit b", Rate: 30}, *in.WorstHabit)
}

func TestInsightsDegenerate(t *testing.T) {
	in := ComputeInsights(nil, nil, 0)
	assert.Equal(t, Insights{TrendDirection: "up"}, in)

	habits := []model.Habit{habit("a")}
	in = ComputeInsights(DailySeries(habits, 3), habits, 3)
	assert.Equal(t, Point{}, in.BestDay)
	assert.Equal(t, 0, in.PerfectDays)
	assert.Equal(t, 0, in.TopHabit.Rate)
}
