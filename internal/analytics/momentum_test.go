package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"superoutine/internal/model"
)

func TestMomentumExample(t *testing.T) {
	// recent window 8..14 at 80%, prior window 1..7 at 60%
	habits := []model.Habit{
		habit("a", span(1, 14)...),
		habit("b", span(1, 14)...),
		habit("c", span(1, 14)...),
		habit("d", span(8, 14)...),
		habit("e"),
	}

	m := ComputeMomentum(habits, 14)
	assert.Equal(t, Momentum{Recent: 80, Previous: 60, Delta: 20, Label: "On Fire!"}, m)
}

func TestMomentumTruncatesWindows(t *testing.T) {
	habits := []model.Habit{habit("a", 1, 2, 3)}

	m := ComputeMomentum(habits, 3)
	assert.Equal(t, 100, m.Recent)
	assert.Equal(t, 0, m.Previous)
	assert.Equal(t, 100, m.Delta)

	// prior window 1..3 has three days
	m = ComputeMomentum([]model.Habit{habit("a", 1, 2, 3)}, 10)
	assert.Equal(t, 0, m.Recent)
	assert.Equal(t, 100, m.Previous)
	assert.Equal(t, "Fresh Start Awaits", m.Label)
}

func TestMomentumDegenerate(t *testing.T) {
	assert.Equal(t, Momentum{Label: "Getting Started"}, ComputeMomentum(nil, 10))
	assert.Equal(t, Momentum{Label: "Fresh Start Awaits"}, ComputeMomentum([]model.Habit{habit("a")}, 0))
}

func TestMomentumLabels(t *testing.T) {
	tests := []struct {
		recent, delta int
		want          string
	}{
		{85, -5, "On Fire!"},
		{60, 0, "Building Momentum"},
		{40, 15, "Picking Up Speed"},
		{30, -20, "Room to Grow"},
		{0, -20, "Fresh Start Awaits"},
		{45, 5, "Steady Progress"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, momentumLabel(tt.recent, tt.delta), "recent=%d delta=%d", tt.recent, tt.delta)
	}
}
