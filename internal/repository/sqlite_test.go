package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superoutine/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenLocalStore(context.Background(), filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHabitCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := &model.Habit{ID: uuid.NewString(), UserID: "u1", Name: "Read", Goal: 20}
	require.NoError(t, store.Habits.Create(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())

	second := &model.Habit{ID: uuid.NewString(), UserID: "u1", Name: "Run", Goal: 10, LinkedTo: &first.ID}
	require.NoError(t, store.Habits.Create(ctx, second))

	other := &model.Habit{ID: uuid.NewString(), UserID: "u2", Name: "Swim", Goal: 5}
	require.NoError(t, store.Habits.Create(ctx, other))

	list, err := store.Habits.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Read", list[0].Name)
	assert.Equal(t, "Run", list[1].Name)
	assert.Equal(t, []int{}, list[0].CompletedDays)

	first.CompletedDays = []int{1, 2, 5}
	first.Name = "Read 10 pages"
	require.NoError(t, store.Habits.Update(ctx, first))

	got, err := store.Habits.Get(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, got.CompletedDays)
	assert.Equal(t, "Read 10 pages", got.Name)

	// another user's habit is invisible
	_, err = store.Habits.Get(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Habits.Delete(ctx, "u2", first.ID), ErrNotFound)

	// deleting the stack target clears the link
	require.NoError(t, store.Habits.Delete(ctx, "u1", first.ID))
	got, err = store.Habits.Get(ctx, "u1", second.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LinkedTo)

	missing := &model.Habit{ID: "nope", UserID: "u1", Name: "x", Goal: 1}
	assert.ErrorIs(t, store.Habits.Update(ctx, missing), ErrNotFound)
}

func TestWeeklyHabitCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	w := &model.WeeklyHabit{ID: uuid.NewString(), UserID: "u1", Name: "Long run", Goal: 4}
	require.NoError(t, store.WeeklyHabits.Create(ctx, w))

	w.CompletedWeeks = []int{1, 3}
	require.NoError(t, store.WeeklyHabits.Update(ctx, w))

	list, err := store.WeeklyHabits.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []int{1, 3}, list[0].CompletedWeeks)

	require.NoError(t, store.WeeklyHabits.Delete(ctx, "u1", w.ID))
	_, err = store.WeeklyHabits.Get(ctx, "u1", w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGamificationSave(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Gamification.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	reset := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s := model.NewGameState("u1")
	s.TotalXP = 120
	s.LastMonthReset = &reset
	require.NoError(t, store.Gamification.Save(ctx, &s))

	skip := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	s.EmergencySkipsRemaining, s.EmergencySkipsUsed, s.LastSkipDate = 0, 1, &skip
	require.NoError(t, store.Gamification.Save(ctx, &s))

	got, err := store.Gamification.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 120, got.TotalXP)
	assert.Equal(t, 0, got.EmergencySkipsRemaining)
	assert.Equal(t, 1, got.EmergencySkipsUsed)
	require.NotNil(t, got.LastSkipDate)
	assert.True(t, skip.Equal(*got.LastSkipDate))
	require.NotNil(t, got.LastMonthReset)
	assert.True(t, reset.Equal(*got.LastMonthReset))
}

func TestMoodUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, m := range []model.MoodCheckin{
		{UserID: "u1", Date: "2025-03-01", Mood: 2},
		{UserID: "u1", Date: "2025-03-02", Mood: 4},
		{UserID: "u1", Date: "2025-03-02", Mood: 5},
	} {
		require.NoError(t, store.Moods.Upsert(ctx, &m))
	}

	recent, err := store.Moods.Recent(ctx, "u1", 7)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2025-03-02", recent[0].Date)
	assert.Equal(t, 5, recent[0].Mood)

	assert.Error(t, store.Moods.Upsert(ctx, &model.MoodCheckin{UserID: "u1", Date: "03/02", Mood: 3}))
}

func TestReminders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	on := model.ReminderSettings{UserID: "u1", Enabled: true, Time: "08:30", Timezone: "Europe/Berlin"}
	off := model.DefaultReminderSettings("u2")
	require.NoError(t, store.Reminders.Save(ctx, &on))
	require.NoError(t, store.Reminders.Save(ctx, &off))

	enabled, err := store.Reminders.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "08:30", enabled[0].Time)

	require.NoError(t, store.Reminders.MarkSent(ctx, "u1", "2025-03-14"))
	got, err := store.Reminders.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", got.LastSentOn)

	assert.ErrorIs(t, store.Reminders.MarkSent(ctx, "u3", "2025-03-14"), ErrNotFound)
	require.NoError(t, store.Ping(ctx))
}

func TestSchema(t *testing.T) {
	_, err := Schema("mysql")
	assert.Error(t, err)

	pg, err := Schema(DriverPostgres)
	require.NoError(t, err)
	assert.Contains(t, pg, "outbox_events")
	assert.Len(t, splitStatements("a; ;b;"), 2)
}
