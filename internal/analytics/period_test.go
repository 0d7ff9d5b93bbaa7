package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodCalendar(t *testing.T) {
	leap := Period{Year: 2024, Month: time.February}
	assert.Equal(t, 29, leap.DaysInMonth())
	assert.Equal(t, 5, leap.NumWeeks())

	plain := Period{Year: 2023, Month: time.February}
	assert.Equal(t, 28, plain.DaysInMonth())
	assert.Equal(t, 4, plain.NumWeeks())

	start, end, ok := leap.WeekRange(5)
	require.True(t, ok)
	assert.Equal(t, 29, start)
	assert.Equal(t, 29, end)

	start, end, ok = leap.WeekRange(2)
	require.True(t, ok)
	assert.Equal(t, 8, start)
	assert.Equal(t, 14, end)

	_, _, ok = leap.WeekRange(6)
	assert.False(t, ok)
	_, _, ok = leap.WeekRange(0)
	assert.False(t, ok)
}

func TestCurrentDay(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 15, Period{2024, time.March}.CurrentDay(now))
	assert.Equal(t, 0, Period{2024, time.April}.CurrentDay(now))
	assert.Equal(t, 0, Period{2025, time.January}.CurrentDay(now))
	assert.Equal(t, 29, Period{2024, time.February}.CurrentDay(now))
	assert.Equal(t, 31, Period{2023, time.December}.CurrentDay(now))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-07")
	require.NoError(t, err)
	assert.Equal(t, Period{2024, time.July}, p)
	assert.Equal(t, "2024-07", p.String())

	_, err = ParsePeriod("July 2024")
	assert.Error(t, err)
}

func TestWeekOfDay(t *testing.T) {
	assert.Equal(t, 0, WeekOfDay(0))
	assert.Equal(t, 1, WeekOfDay(1))
	assert.Equal(t, 1, WeekOfDay(7))
	assert.Equal(t, 2, WeekOfDay(8))
	assert.Equal(t, 5, WeekOfDay(31))
}
