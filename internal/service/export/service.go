package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"superoutine/internal/model"
	"superoutine/internal/repository"
)

// FormatVersion 导出文件格式版本
const FormatVersion = 1

// moodHistory 最多导出一年的心情记录
const moodHistory = 366

// Bundle 是 "Export All Data" 的文件内容，habitctl stats 也读取该格式
type Bundle struct {
	Version      int                     `json:"version"`
	ExportedAt   time.Time               `json:"exported_at"`
	UserID       string                  `json:"user_id"`
	Habits       []model.Habit           `json:"habits"`
	WeeklyHabits []model.WeeklyHabit     `json:"weekly_habits"`
	Gamification model.GameState         `json:"gamification"`
	Moods        []model.MoodCheckin     `json:"moods"`
	Reminder     *model.ReminderSettings `json:"reminder,omitempty"`
}

type Service struct {
	store  *repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store *repository.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Build collects every record of userID. A user without gamification or reminder rows
// gets the defaults, never an error.
func (s *Service) Build(ctx context.Context, userID string) (*Bundle, error) {
	b := &Bundle{
		Version:      FormatVersion,
		ExportedAt:   s.now().UTC(),
		UserID:       userID,
		Gamification: model.NewGameState(userID),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		habits, err := s.store.Habits.List(gctx, userID)
		b.Habits = habits
		return err
	})
	g.Go(func() error {
		weekly, err := s.store.WeeklyHabits.List(gctx, userID)
		b.WeeklyHabits = weekly
		return err
	})
	g.Go(func() error {
		state, err := s.store.Gamification.Get(gctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err == nil {
			b.Gamification = *state
		}
		return err
	})
	g.Go(func() error {
		moods, err := s.store.Moods.Recent(gctx, userID, moodHistory)
		b.Moods = moods
		return err
	})
	g.Go(func() error {
		r, err := s.store.Reminders.Get(gctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		b.Reminder = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export user data: %w", err)
	}

	if b.Habits == nil {
		b.Habits = []model.Habit{}
	}
	if b.WeeklyHabits == nil {
		b.WeeklyHabits = []model.WeeklyHabit{}
	}
	if b.Moods == nil {
		b.Moods = []model.MoodCheckin{}
	}

	s.logger.Info("User data exported",
		zap.String("user_id", userID),
		zap.Int("habits", len(b.Habits)),
		zap.Int("weekly_habits", len(b.WeeklyHabits)),
		zap.Int("moods", len(b.Moods)),
	)
	return b, nil
}
