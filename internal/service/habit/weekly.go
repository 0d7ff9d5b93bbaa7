package habit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/analytics"
	game "superoutine/internal/gamification"
	"superoutine/internal/model"
	"superoutine/pkg/metrics"
)

func (s *Service) ListWeeklyHabits(ctx context.Context, userID string) ([]model.WeeklyHabit, error) {
	return s.weekly.List(ctx, userID)
}

func (s *Service) AddWeeklyHabit(ctx context.Context, userID string, in model.WeeklyHabitInput) (*model.WeeklyHabit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	w := &model.WeeklyHabit{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           in.Name,
		Goal:           in.Goal,
		CompletedWeeks: []int{},
	}
	if err := s.weekly.Create(ctx, w); err != nil {
		metrics.IncrementMutationFailure("add_weekly_habit")
		return nil, fmt.Errorf("create weekly habit: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return w, nil
}

func (s *Service) EditWeeklyHabit(ctx context.Context, userID, id string, in model.WeeklyHabitInput) Mutation[model.WeeklyHabit] {
	current, err := s.weekly.Get(ctx, userID, id)
	if err != nil {
		return failed(err, model.WeeklyHabit{})
	}
	if err := in.Validate(); err != nil {
		return failed(err, *current)
	}

	next := current.Clone()
	next.Name, next.Goal = in.Name, in.Goal
	if err := s.weekly.Update(ctx, &next); err != nil {
		metrics.IncrementMutationFailure("edit_weekly_habit")
		return failed(err, *current)
	}
	s.cache.Invalidate(ctx, userID)
	return succeeded(next)
}

func (s *Service) DeleteWeeklyHabit(ctx context.Context, userID, id string) Mutation[model.WeeklyHabit] {
	current, err := s.weekly.Get(ctx, userID, id)
	if err != nil {
		return failed(err, model.WeeklyHabit{})
	}
	if err := s.weekly.Delete(ctx, userID, id); err != nil {
		metrics.IncrementMutationFailure("delete_weekly_habit")
		return failed(err, *current)
	}
	s.cache.Invalidate(ctx, userID)
	return succeeded(*current)
}

func (s *Service) validWeek(week int) (analytics.Period, error) {
	now := s.now()
	period := analytics.PeriodOf(now)
	if week < 1 || week > period.NumWeeks() {
		return period, ErrWeekOutOfRange
	}
	if week > analytics.WeekOfDay(period.CurrentDay(now)) {
		return period, ErrFutureWeek
	}
	return period, nil
}

// ToggleWeek flips one week of a weekly habit; adding a week awards WeeklyXP.
func (s *Service) ToggleWeek(ctx context.Context, userID, id string, week int) Mutation[model.WeeklyHabit] {
	current, err := s.weekly.Get(ctx, userID, id)
	if err != nil {
		return failed(err, model.WeeklyHabit{})
	}
	period, err := s.validWeek(week)
	if err != nil {
		return failed(err, *current)
	}

	next := current.Clone()
	var added bool
	next.CompletedWeeks, added = model.ToggleIndex(current.CompletedWeeks, week)
	if err := s.weekly.Update(ctx, &next); err != nil {
		metrics.IncrementMutationFailure("toggle_week")
		s.logger.Error("Failed to persist weekly toggle",
			zap.String("habit_id", id),
			zap.Int("week", week),
			zap.Error(err),
		)
		return failed(err, *current)
	}
	metrics.IncrementToggle(string(game.KindWeekly), added)

	xp := game.AwardFor(game.KindWeekly, added)
	if xp > 0 {
		if _, err := s.xp.AwardXP(ctx, userID, game.KindWeekly, xp); err != nil {
			s.logger.Error("Failed to award XP", zap.String("user_id", userID), zap.Error(err))
			xp = 0
		}
	}
	s.cache.Invalidate(ctx, userID)

	payload := mqcontracts.WeeklyHabitToggledPayload{
		Meta:      mqcontracts.NewMeta(ctx, userID),
		HabitID:   next.ID,
		HabitName: next.Name,
		Period:    period.String(),
		Week:      week,
		Added:     added,
		XPAwarded: xp,
	}
	if err := s.events.PublishWithContext(ctx, mqcontracts.RoutingWeeklyHabitToggled, payload); err != nil {
		s.logger.Error("Failed to emit weekly habit toggled", zap.String("habit_id", id), zap.Error(err))
	}
	return succeeded(next)
}
