package habit

import (
	"context"
	"errors"
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
	gamesvc "superoutine/internal/service/gamification"
)

var today = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type countingCache struct{ n int }

func (c *countingCache) Invalidate(context.Context, string) { c.n++ }

// failingHabits fails every Update after wrapping a real repository.
type failingHabits struct {
	repository.HabitRepository
}

func (failingHabits) Update(context.Context, *model.Habit) error {
	return errors.New("connection reset")
}

type fixture struct {
	svc   *Service
	game  *gamesvc.Service
	store *repository.Store
	rec   *events.Recorder
	cache *countingCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := repository.OpenLocalStore(context.Background(), filepath.Join(t.TempDir(), "habits.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rec := &events.Recorder{}
	cache := &countingCache{}
	game := gamesvc.NewService(store.Gamification, rec, zap.NewNop())
	game.SetClock(func() time.Time { return today })

	svc := NewService(store.Habits, store.WeeklyHabits, game, cache, rec, zap.NewNop())
	svc.SetClock(func() time.Time { return today })
	return &fixture{svc: svc, game: game, store: store, rec: rec, cache: cache}
}

func TestAddHabitValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "   ", Goal: 5})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "Run", Goal: 5, LinkedTo: &missing})
	assert.ErrorIs(t, err, ErrLinkedHabitMissing)

	h, err := f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "Read", Goal: 20})
	require.NoError(t, err)
	assert.Empty(t, h.CompletedDays)
	assert.Equal(t, 1, f.cache.n)
}

func TestToggleDayIsInvolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "Read", Goal: 20})
	require.NoError(t, err)

	on := f.svc.ToggleDay(ctx, "u1", h.ID, 3)
	require.True(t, on.OK, "%v", on.Err)
	assert.Equal(t, []int{3}, on.Value.CompletedDays)

	off := f.svc.ToggleDay(ctx, "u1", h.ID, 3)
	require.True(t, off.OK)
	assert.Empty(t, off.Value.CompletedDays)

	stored, err := f.store.Habits.Get(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CompletedDays)

	// XP only for absent->present
	state, err := f.game.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, state.TotalXP)

	keys := f.rec.Keys()
	assert.Equal(t, []string{mqcontracts.RoutingHabitToggled, mqcontracts.RoutingHabitToggled}, keys)
	first := f.rec.Events()[0].Payload.(mqcontracts.HabitToggledPayload)
	assert.True(t, first.Added)
	assert.Equal(t, 10, first.XPAwarded)
	assert.Equal(t, "2025-03", first.Period)
	assert.Equal(t, 1, first.CompletedToday)
	assert.Equal(t, 1, first.TotalHabits)
}

func TestToggleDayRejectsOutOfRangeAndFuture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "Read", Goal: 20})
	require.NoError(t, err)

	for day, want := range map[int]error{0: ErrDayOutOfRange, 32: ErrDayOutOfRange, 15: ErrFutureDay} {
		m := f.svc.ToggleDay(ctx, "u1", h.ID, day)
		assert.False(t, m.OK)
		assert.ErrorIs(t, m.Err, want, "day %d", day)
		assert.Equal(t, h.ID, m.RollbackTo.ID)
	}

	m := f.svc.ToggleDay(ctx, "u1", "missing", 1)
	assert.ErrorIs(t, m.Err, repository.ErrNotFound)
	assert.Empty(t, f.rec.Keys())
}

func TestToggleDayFailureCarriesRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "Read", Goal: 20})
	require.NoError(t, err)
	require.True(t, f.svc.ToggleDay(ctx, "u1", h.ID, 1).OK)

	f.svc.habits = failingHabits{f.store.Habits}
	m := f.svc.ToggleDay(ctx, "u1", h.ID, 2)
	assert.False(t, m.OK)
	assert.EqualError(t, m.Err, "connection reset")
	assert.Equal(t, []int{1}, m.RollbackTo.CompletedDays)
}

func TestEditAndDeleteHabit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base, err := f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "Meditate", Goal: 20})
	require.NoError(t, err)
	h, err := f.svc.AddHabit(ctx, "u1", model.HabitInput{Name: "Read", Goal: 20})
	require.NoError(t, err)

	m := f.svc.EditHabit(ctx, "u1", h.ID, model.HabitInput{Name: "Read more", Goal: 25, LinkedTo: &base.ID})
	require.True(t, m.OK, "%v", m.Err)
	assert.Equal(t, "Read more", m.Value.Name)
	require.NotNil(t, m.Value.LinkedTo)

	m = f.svc.EditHabit(ctx, "u1", h.ID, model.HabitInput{Name: "Read", Goal: 20, LinkedTo: &h.ID})
	assert.ErrorIs(t, m.Err, ErrLinkedToSelf)
	assert.Equal(t, "Read more", m.RollbackTo.Name)

	d := f.svc.DeleteHabit(ctx, "u1", h.ID)
	require.True(t, d.OK)
	list, err := f.svc.ListHabits(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestToggleWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.svc.AddWeeklyHabit(ctx, "u1", model.WeeklyHabitInput{Name: "Long run", Goal: 4})
	require.NoError(t, err)

	// March 14 is in week 2
	m := f.svc.ToggleWeek(ctx, "u1", w.ID, 2)
	require.True(t, m.OK, "%v", m.Err)
	assert.Equal(t, []int{2}, m.Value.CompletedWeeks)

	assert.ErrorIs(t, f.svc.ToggleWeek(ctx, "u1", w.ID, 3).Err, ErrFutureWeek)
	assert.ErrorIs(t, f.svc.ToggleWeek(ctx, "u1", w.ID, 6).Err, ErrWeekOutOfRange)

	state, err := f.game.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, state.TotalXP)

	_, err = f.svc.AddWeeklyHabit(ctx, "u1", model.WeeklyHabitInput{Name: "Too many", Goal: 6})
	assert.Error(t, err)
}
