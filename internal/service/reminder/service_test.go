package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/events"
	"superoutine/internal/model"
	"superoutine/internal/repository"
)

func TestDueAt(t *testing.T) {
	s := model.ReminderSettings{Time: "08:30", Timezone: "UTC"}
	due, err := DueAt(s, time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC), due.UTC())

	// 23:00 UTC is already March 15 in Tokyo
	s.Timezone = "Asia/Tokyo"
	due, err = DueAt(s, time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 15, due.Day())
	assert.Equal(t, 8, due.Hour())

	_, err = DueAt(model.ReminderSettings{Time: "8h", Timezone: "UTC"}, time.Now())
	assert.Error(t, err)
	_, err = DueAt(model.ReminderSettings{Time: "08:00", Timezone: "Mars/Olympus"}, time.Now())
	assert.Error(t, err)
}

func TestSaveDefaults(t *testing.T) {
	ctx := context.Background()
	store, err := repository.OpenLocalStore(ctx, filepath.Join(t.TempDir(), "rem.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	svc := NewService(store.Reminders, zap.NewNop())
	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultReminderSettings("u1"), got)

	_, err = svc.Save(ctx, "u1", model.ReminderInput{Enabled: true, Time: "25:00"})
	assert.Error(t, err)

	got, err = svc.Save(ctx, "u1", model.ReminderInput{Enabled: true, Time: "07:45"})
	require.NoError(t, err)
	assert.Equal(t, "UTC", got.Timezone)
	assert.True(t, got.Enabled)
}

func TestSchedulerTickOncePerDay(t *testing.T) {
	ctx := context.Background()
	store, err := repository.OpenLocalStore(ctx, filepath.Join(t.TempDir(), "rem.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Reminders.Save(ctx, &model.ReminderSettings{UserID: "u1", Enabled: true, Time: "09:00", Timezone: "UTC"}))
	require.NoError(t, store.Reminders.Save(ctx, &model.ReminderSettings{UserID: "u2", Enabled: false, Time: "09:00", Timezone: "UTC"}))
	require.NoError(t, store.Habits.Create(ctx, &model.Habit{ID: "h1", UserID: "u1", Name: "Read", Goal: 5, CompletedDays: []int{14}}))
	require.NoError(t, store.Habits.Create(ctx, &model.Habit{ID: "h2", UserID: "u1", Name: "Run", Goal: 5}))

	rec := &events.Recorder{}
	sched := NewScheduler(store.Reminders, store.Habits, rec, time.Minute, zap.NewNop())

	assert.Equal(t, 0, sched.Tick(ctx, time.Date(2025, 3, 14, 8, 59, 0, 0, time.UTC)))
	assert.Equal(t, 1, sched.Tick(ctx, time.Date(2025, 3, 14, 9, 0, 30, 0, time.UTC)))
	assert.Equal(t, 0, sched.Tick(ctx, time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, sched.Tick(ctx, time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)))

	require.Equal(t, []string{mqcontracts.RoutingReminderDue, mqcontracts.RoutingReminderDue}, rec.Keys())
	first := rec.Events()[0].Payload.(mqcontracts.ReminderDuePayload)
	assert.Equal(t, "2025-03-14", first.Date)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 1, first.Pending)
}
