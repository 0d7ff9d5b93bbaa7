package repository

import (
	"context"
	"errors"

	"superoutine/internal/model"
)

// ErrNotFound 记录不存在（或不属于该用户）
var ErrNotFound = errors.New("record not found")

// HabitRepository 每日习惯的持久化；Update 整行替换 completed_days
type HabitRepository interface {
	List(ctx context.Context, userID string) ([]model.Habit, error)
	Get(ctx context.Context, userID, id string) (*model.Habit, error)
	Create(ctx context.Context, h *model.Habit) error
	Update(ctx context.Context, h *model.Habit) error
	Delete(ctx context.Context, userID, id string) error
}

// WeeklyHabitRepository 每周习惯的持久化
type WeeklyHabitRepository interface {
	List(ctx context.Context, userID string) ([]model.WeeklyHabit, error)
	Get(ctx context.Context, userID, id string) (*model.WeeklyHabit, error)
	Create(ctx context.Context, w *model.WeeklyHabit) error
	Update(ctx context.Context, w *model.WeeklyHabit) error
	Delete(ctx context.Context, userID, id string) error
}

// GamificationRepository returns ErrNotFound for users without a row yet.
type GamificationRepository interface {
	Get(ctx context.Context, userID string) (*model.GameState, error)
	Save(ctx context.Context, s *model.GameState) error
}

// MoodRepository 每个用户每天一条心情记录
type MoodRepository interface {
	Upsert(ctx context.Context, m *model.MoodCheckin) error
	// Recent returns the newest check-ins first.
	Recent(ctx context.Context, userID string, limit int) ([]model.MoodCheckin, error)
}

type ReminderRepository interface {
	Get(ctx context.Context, userID string) (*model.ReminderSettings, error)
	Save(ctx context.Context, s *model.ReminderSettings) error
	ListEnabled(ctx context.Context) ([]model.ReminderSettings, error)
	MarkSent(ctx context.Context, userID, date string) error
}

// Store 聚合所有仓储，由 postgres 或 sqlite 实现构建
type Store struct {
	Driver       string
	Habits       HabitRepository
	WeeklyHabits WeeklyHabitRepository
	Gamification GamificationRepository
	Moods        MoodRepository
	Reminders    ReminderRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping checks the underlying connection; used by /readyz.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
