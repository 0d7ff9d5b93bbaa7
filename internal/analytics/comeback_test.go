package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"superoutine/internal/model"
)

func TestComebackNoGaps(t *testing.T) {
	habits := []model.Habit{habit("a", span(1, 5)...)}

	c := ComputeComeback(habits, 5)
	assert.True(t, c.Defined)
	assert.Equal(t, 100, c.Score)
	assert.Equal(t, 0, c.GapDays)

	c = ComputeComeback([]model.Habit{habit("a", 1, 2, 3)}, 3)
	assert.True(t, c.Defined)
	assert.Equal(t, 100, c.Score)
	assert.Equal(t, "Incredible resilience! You never stay down long.", c.Message)
}

func TestComebackNeedsThreeDays(t *testing.T) {
	c := ComputeComeback([]model.Habit{habit("a", 1, 2)}, 2)
	assert.False(t, c.Defined)
	assert.Equal(t, 0, c.Score)
	assert.Equal(t, comebackPlaceholder, c.Message)
}

func TestComebackGapsAndRecoveries(t *testing.T) {
	// day rates: 0, 100, 0, 0, 50
	habits := []model.Habit{habit("a", 2, 5), habit("b", 2)}

	c := ComputeComeback(habits, 5)
	assert.Equal(t, 3, c.GapDays)
	assert.Equal(t, 2, c.Comebacks)
	assert.Equal(t, 67, c.Score)
	assert.Equal(t, "Great comeback energy! Gaps are just pauses, not stops.", c.Message)
}

func TestComebackNeverRecovered(t *testing.T) {
	c := ComputeComeback([]model.Habit{habit("a")}, 10)
	assert.True(t, c.Defined)
	assert.Equal(t, 9, c.GapDays)
	assert.Equal(t, 0, c.Score)
	assert.Equal(t, "Every return is a victory. Keep showing up!", c.Message)
}

func TestComebackUndefined(t *testing.T) {
	assert.Equal(t, Comeback{Message: comebackPlaceholder}, ComputeComeback(nil, 10))
	assert.Equal(t, Comeback{Message: comebackPlaceholder}, ComputeComeback([]model.Habit{habit("a", 1)}, 1))
}

func TestComebackMessages(t *testing.T) {
	assert.Equal(t, "Incredible resilience! You never stay down long.", comebackMessage(100))
	assert.Equal(t, "Great comeback energy! Gaps are just pauses, not stops.", comebackMessage(50))
	assert.Equal(t, "You're learning to bounce back — that takes real courage.", comebackMessage(25))
	assert.Equal(t, "Every return is a victory. Keep showing up!", comebackMessage(0))
}
