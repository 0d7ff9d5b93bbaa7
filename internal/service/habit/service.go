package habit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/analytics"
	"superoutine/internal/events"
	game "superoutine/internal/gamification"
	"superoutine/internal/model"
	"superoutine/internal/repository"
	"superoutine/pkg/metrics"
)

var (
	ErrDayOutOfRange      = errors.New("day is outside the current month")
	ErrFutureDay          = errors.New("cannot toggle a future day")
	ErrWeekOutOfRange     = errors.New("week is outside the current month")
	ErrFutureWeek         = errors.New("cannot toggle a future week")
	ErrLinkedHabitMissing = errors.New("linked habit does not exist")
	ErrLinkedToSelf       = errors.New("a habit cannot be linked to itself")
)

// XPAwarder 由 gamification service 实现
type XPAwarder interface {
	AwardXP(ctx context.Context, userID string, kind game.Kind, amount int) (*model.GameState, error)
}

// Invalidator drops cached dashboards of a user after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type Service struct {
	habits repository.HabitRepository
	weekly repository.WeeklyHabitRepository
	xp     XPAwarder
	cache  Invalidator
	events events.Emitter
	logger *zap.Logger
	now    func() time.Time
}

func NewService(
	habits repository.HabitRepository,
	weekly repository.WeeklyHabitRepository,
	xp XPAwarder,
	cache Invalidator,
	emitter events.Emitter,
	logger *zap.Logger,
) *Service {
	return &Service{
		habits: habits,
		weekly: weekly,
		xp:     xp,
		cache:  cache,
		events: emitter,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) ListHabits(ctx context.Context, userID string) ([]model.Habit, error) {
	return s.habits.List(ctx, userID)
}

// AddHabit validates the input and stores a habit with an empty completed set.
func (s *Service) AddHabit(ctx context.Context, userID string, in model.HabitInput) (*model.Habit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	h := &model.Habit{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          in.Name,
		Goal:          in.Goal,
		CompletedDays: []int{},
	}
	if err := s.checkLink(ctx, userID, h.ID, in.LinkedTo); err != nil {
		return nil, err
	}
	h.LinkedTo = in.LinkedTo

	if err := s.habits.Create(ctx, h); err != nil {
		metrics.IncrementMutationFailure("add_habit")
		return nil, fmt.Errorf("create habit: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return h, nil
}

func (s *Service) checkLink(ctx context.Context, userID, habitID string, linkedTo *string) error {
	if linkedTo == nil {
		return nil
	}
	if *linkedTo == habitID {
		return ErrLinkedToSelf
	}
	if _, err := s.habits.Get(ctx, userID, *linkedTo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLinkedHabitMissing
		}
		return err
	}
	return nil
}

// EditHabit renames or re-targets a habit. Completed days are kept.
func (s *Service) EditHabit(ctx context.Context, userID, id string, in model.HabitInput) Mutation[model.Habit] {
	current, err := s.habits.Get(ctx, userID, id)
	if err != nil {
		return failed(err, model.Habit{})
	}
	if err := in.Validate(); err != nil {
		return failed(err, *current)
	}
	if err := s.checkLink(ctx, userID, id, in.LinkedTo); err != nil {
		return failed(err, *current)
	}

	next := current.Clone()
	next.Name, next.Goal, next.LinkedTo = in.Name, in.Goal, in.LinkedTo
	if err := s.habits.Update(ctx, &next); err != nil {
		metrics.IncrementMutationFailure("edit_habit")
		s.logger.Error("Failed to edit habit", zap.String("habit_id", id), zap.Error(err))
		return failed(err, *current)
	}
	s.cache.Invalidate(ctx, userID)
	return succeeded(next)
}

// DeleteHabit removes a habit; RollbackTo carries the deleted row on failure.
func (s *Service) DeleteHabit(ctx context.Context, userID, id string) Mutation[model.Habit] {
	current, err := s.habits.Get(ctx, userID, id)
	if err != nil {
		return failed(err, model.Habit{})
	}
	if err := s.habits.Delete(ctx, userID, id); err != nil {
		metrics.IncrementMutationFailure("delete_habit")
		s.logger.Error("Failed to delete habit", zap.String("habit_id", id), zap.Error(err))
		return failed(err, *current)
	}
	s.cache.Invalidate(ctx, userID)
	return succeeded(*current)
}

// validDay checks day against the current calendar month.
func (s *Service) validDay(day int) (analytics.Period, error) {
	now := s.now()
	period := analytics.PeriodOf(now)
	if day < 1 || day > period.DaysInMonth() {
		return period, ErrDayOutOfRange
	}
	if day > period.CurrentDay(now) {
		return period, ErrFutureDay
	}
	return period, nil
}

// ToggleDay flips one day of a habit. Adding a day awards DailyXP; removing never takes XP back.
func (s *Service) ToggleDay(ctx context.Context, userID, id string, day int) Mutation[model.Habit] {
	s.logger.Debug("Toggling habit day",
		zap.String("user_id", userID),
		zap.String("habit_id", id),
		zap.Int("day", day),
	)

	current, err := s.habits.Get(ctx, userID, id)
	if err != nil {
		return failed(err, model.Habit{})
	}
	period, err := s.validDay(day)
	if err != nil {
		return failed(err, *current)
	}

	next := current.Clone()
	var added bool
	next.CompletedDays, added = model.ToggleIndex(current.CompletedDays, day)
	if err := s.habits.Update(ctx, &next); err != nil {
		metrics.IncrementMutationFailure("toggle_day")
		s.logger.Error("Failed to persist toggle",
			zap.String("habit_id", id),
			zap.Int("day", day),
			zap.Error(err),
		)
		return failed(err, *current)
	}
	metrics.IncrementToggle(string(game.KindDaily), added)

	xp := game.AwardFor(game.KindDaily, added)
	if xp > 0 {
		if _, err := s.xp.AwardXP(ctx, userID, game.KindDaily, xp); err != nil {
			s.logger.Error("Failed to award XP", zap.String("user_id", userID), zap.Error(err))
			xp = 0
		}
	}
	s.cache.Invalidate(ctx, userID)

	payload := mqcontracts.HabitToggledPayload{
		Meta:          mqcontracts.NewMeta(ctx, userID),
		HabitID:       next.ID,
		HabitName:     next.Name,
		Period:        period.String(),
		Day:           day,
		Added:         added,
		XPAwarded:     xp,
		CurrentStreak: analytics.CurrentStreak(next.CompletedDays, day),
	}
	if all, err := s.habits.List(ctx, userID); err == nil {
		today := analytics.Today(all, day)
		payload.CompletedToday, payload.TotalHabits = today.Completed, today.Possible
	}
	if err := s.events.PublishWithContext(ctx, mqcontracts.RoutingHabitToggled, payload); err != nil {
		s.logger.Error("Failed to emit habit toggled", zap.String("habit_id", id), zap.Error(err))
	}

	s.logger.Info("Habit day toggled",
		zap.String("habit_id", id),
		zap.Int("day", day),
		zap.Bool("added", added),
	)
	return succeeded(next)
}
