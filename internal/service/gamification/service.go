package gamification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/events"
	game "superoutine/internal/gamification"
	"superoutine/internal/model"
	"superoutine/internal/repository"
	"superoutine/pkg/metrics"
)

// Summary 是 /v1/gamification 的响应
type Summary struct {
	State           model.GameState `json:"state"`
	Level           game.Level      `json:"level"`
	SkipStatus      game.SkipStatus `json:"skip_status"`
	StreakProtected bool            `json:"streak_protected"`
}

type Service struct {
	repo   repository.GamificationRepository
	events events.Emitter
	logger *zap.Logger
	now    func() time.Time

	// 同一用户的读-改-写串行化
	locks [64]sync.Mutex
}

func NewService(repo repository.GamificationRepository, emitter events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		events: emitter,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces time.Now; tests pin the month and day with it.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) lock(userID string) func() {
	mu := &s.locks[xxhash.Sum64String(userID)%uint64(len(s.locks))]
	mu.Lock()
	return mu.Unlock
}

// Load returns the user's state after the monthly skip reset, persisting the reset
// (or the initial row) when it happened.
func (s *Service) Load(ctx context.Context, userID string) (*model.GameState, error) {
	unlock := s.lock(userID)
	defer unlock()
	return s.load(ctx, userID)
}

func (s *Service) load(ctx context.Context, userID string) (*model.GameState, error) {
	state, err := s.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		fresh := model.NewGameState(userID)
		state, err = &fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load game state: %w", err)
	}

	if game.EnsureMonth(state, s.now()) {
		s.logger.Info("Monthly emergency skip reset",
			zap.String("user_id", userID),
			zap.Int("remaining", state.EmergencySkipsRemaining),
		)
		if err := s.repo.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("persist monthly reset: %w", err)
		}
	}
	return state, nil
}

// Summary loads the state and derives level and skip status.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	state, err := s.Load(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(*state, s.now()), nil
}

func summarize(state model.GameState, now time.Time) Summary {
	return Summary{
		State:           state,
		Level:           game.LevelFor(state.TotalXP),
		SkipStatus:      game.Status(state, now),
		StreakProtected: game.IsStreakProtected(state, now),
	}
}

// AwardXP adds amount to the user's total and emits gamification.level_up on a level change.
func (s *Service) AwardXP(ctx context.Context, userID string, kind game.Kind, amount int) (*model.GameState, error) {
	if amount <= 0 {
		return s.Load(ctx, userID)
	}

	unlock := s.lock(userID)
	defer unlock()

	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	before := state.TotalXP
	state.TotalXP += amount
	if err := s.repo.Save(ctx, state); err != nil {
		state.TotalXP = before
		return nil, fmt.Errorf("save xp: %w", err)
	}
	metrics.AddXP(string(kind), amount)

	s.logger.Info("XP awarded",
		zap.String("user_id", userID),
		zap.String("kind", string(kind)),
		zap.Int("amount", amount),
		zap.Int("total_xp", state.TotalXP),
	)

	if game.LevelsCrossed(before, state.TotalXP) > 0 {
		level := game.LevelFor(state.TotalXP)
		payload := mqcontracts.LevelUpPayload{
			Meta:      mqcontracts.NewMeta(ctx, userID),
			FromLevel: game.LevelFor(before).Level,
			ToLevel:   level.Level,
			Title:     level.Title,
			TotalXP:   state.TotalXP,
		}
		if err := s.events.PublishWithContext(ctx, mqcontracts.RoutingLevelUp, payload); err != nil {
			s.logger.Error("Failed to emit level up", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return state, nil
}

// UseSkip consumes an emergency skip for today. A rejected skip leaves the state untouched
// and returns game.ErrNoSkipsLeft or game.ErrAlreadyProtected.
func (s *Service) UseSkip(ctx context.Context, userID string) (Summary, error) {
	unlock := s.lock(userID)
	defer unlock()

	state, err := s.load(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	now := s.now()
	before := *state
	if !game.UseSkip(state, now) {
		return summarize(*state, now), game.SkipError(*state, now)
	}
	if err := s.repo.Save(ctx, state); err != nil {
		return summarize(before, now), fmt.Errorf("save skip: %w", err)
	}

	s.logger.Info("Emergency skip used",
		zap.String("user_id", userID),
		zap.Int("remaining", state.EmergencySkipsRemaining),
	)

	payload := mqcontracts.SkipUsedPayload{
		Meta:      mqcontracts.NewMeta(ctx, userID),
		Date:      now.Format("2006-01-02"),
		Remaining: state.EmergencySkipsRemaining,
		Used:      state.EmergencySkipsUsed,
	}
	if err := s.events.PublishWithContext(ctx, mqcontracts.RoutingSkipUsed, payload); err != nil {
		s.logger.Error("Failed to emit skip used", zap.String("user_id", userID), zap.Error(err))
	}
	return summarize(*state, now), nil
}
