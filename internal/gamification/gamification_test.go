package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superoutine/internal/model"
)

func TestAwardFor(t *testing.T) {
	total := 0
	total += AwardFor(KindDaily, true)
	total += AwardFor(KindWeekly, true)
	assert.Equal(t, 60, total)

	// un-toggle never subtracts
	assert.Equal(t, 0, AwardFor(KindDaily, false))
	assert.Equal(t, 0, AwardFor(KindWeekly, false))
	assert.Equal(t, 0, AwardFor(Kind("monthly"), true))
}

func TestXPForLevelStrictlyIncreasing(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(1))
	assert.Equal(t, 100, XPForLevel(2))
	assert.Equal(t, 300, XPForLevel(3))
	assert.Equal(t, 600, XPForLevel(4))

	for l := 1; l < 200; l++ {
		require.Greater(t, XPForLevel(l+1), XPForLevel(l), "level %d", l)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp      int
		level   int
		current int
		next    int
	}{
		{0, 1, 0, 100},
		{99, 1, 99, 100},
		{100, 2, 0, 200},
		{299, 2, 199, 200},
		{300, 3, 0, 300},
		{-5, 1, 0, 100},
	}
	for _, tt := range tests {
		l := LevelFor(tt.xp)
		assert.Equal(t, tt.level, l.Level, "xp=%d", tt.xp)
		assert.Equal(t, tt.current, l.CurrentLevelXP, "xp=%d", tt.xp)
		assert.Equal(t, tt.next, l.NextLevelXP, "xp=%d", tt.xp)
	}

	for xp := 0; xp < 20000; xp += 7 {
		p := LevelFor(xp).Progress
		require.True(t, p >= 0 && p < 1, "xp=%d progress=%v", xp, p)
	}
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "Newcomer", Title(1))
	assert.Equal(t, "Beginner", Title(3))
	assert.Equal(t, "Habit Builder", Title(6))
	assert.Equal(t, "Streak Keeper", Title(10))
	assert.Equal(t, "Legendary Master", Title(80))
	assert.Equal(t, 1, LevelsCrossed(90, 100))
	assert.Equal(t, 0, LevelsCrossed(100, 110))
}

func TestUseSkip(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	s := model.NewGameState("u1")
	EnsureMonth(&s, now)

	assert.Equal(t, SkipAvailable, Status(s, now))
	require.True(t, UseSkip(&s, now))
	assert.Equal(t, 0, s.EmergencySkipsRemaining)
	assert.Equal(t, 1, s.EmergencySkipsUsed)
	assert.True(t, IsStreakProtected(s, now))
	assert.Equal(t, SkipProtected, Status(s, now))

	// second use is a no-op
	assert.False(t, UseSkip(&s, now))
	assert.Equal(t, 0, s.EmergencySkipsRemaining)
	assert.Equal(t, 1, s.EmergencySkipsUsed)
	assert.ErrorIs(t, SkipError(s, now), ErrAlreadyProtected)

	tomorrow := now.AddDate(0, 0, 1)
	assert.False(t, IsStreakProtected(s, tomorrow))
	assert.Equal(t, SkipExhausted, Status(s, tomorrow))
	assert.False(t, UseSkip(&s, tomorrow))
	assert.ErrorIs(t, SkipError(s, tomorrow), ErrNoSkipsLeft)
}

func TestEnsureMonth(t *testing.T) {
	march := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	s := model.NewGameState("u1")

	assert.True(t, EnsureMonth(&s, march))
	assert.False(t, EnsureMonth(&s, march.AddDate(0, 0, 3)))

	require.True(t, UseSkip(&s, march))

	april := time.Date(2025, 4, 1, 0, 5, 0, 0, time.UTC)
	assert.True(t, EnsureMonth(&s, april))
	assert.Equal(t, 1, s.EmergencySkipsRemaining)
	assert.Equal(t, 0, s.EmergencySkipsUsed)
	assert.Nil(t, s.LastSkipDate)
	assert.Equal(t, SkipAvailable, Status(s, april))

	// same month number in a different year still resets
	s = model.NewGameState("u2")
	EnsureMonth(&s, march)
	require.True(t, UseSkip(&s, march))
	assert.True(t, EnsureMonth(&s, march.AddDate(1, 0, 0)))
	assert.Equal(t, 1, s.EmergencySkipsRemaining)
}
