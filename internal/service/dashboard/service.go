package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"superoutine/internal/analytics"
	game "superoutine/internal/gamification"
	"superoutine/internal/model"
	"superoutine/internal/motivation"
	"superoutine/internal/repository"
	"superoutine/pkg/metrics"
	"superoutine/pkg/otel"
)

// GameLoader 由 gamification service 实现（含月度重置）
type GameLoader interface {
	Load(ctx context.Context, userID string) (*model.GameState, error)
}

// View 是 /v1/dashboard 的响应
type View struct {
	analytics.Dashboard
	Level           game.Level       `json:"level"`
	SkipStatus      game.SkipStatus  `json:"skip_status"`
	StreakProtected bool             `json:"streak_protected"`
	Quote           motivation.Quote `json:"quote"`
	Greeting        string           `json:"greeting"`
	Focus           string           `json:"focus"`
	Coach           string           `json:"coach"`
}

type Service struct {
	habits repository.HabitRepository
	weekly repository.WeeklyHabitRepository
	game   GameLoader
	memo   *analytics.Memo
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds the dashboard service. rdb may be nil, in which case only the
// in-process memo is used.
func NewService(
	habits repository.HabitRepository,
	weekly repository.WeeklyHabitRepository,
	gameLoader GameLoader,
	rdb *redis.Client,
	ttl time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		habits: habits,
		weekly: weekly,
		game:   gameLoader,
		memo:   analytics.NewMemo(1024),
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// genTTL 必须长于任何一次进行中的 Get
const genTTL = 24 * time.Hour

var errStaleSnapshot = errors.New("dashboard snapshot invalidated while loading")

// cacheEntry 只缓存与时刻无关的部分，装饰字段在读出后按当前时间计算
type cacheEntry struct {
	Dashboard analytics.Dashboard `json:"dashboard"`
	State     model.GameState     `json:"state"`
}

func cacheKey(userID string) string {
	return "dashboard:" + userID
}

// genKey 每次 Invalidate 自增，写缓存前比对，避免把失效前加载的快照写回
func genKey(userID string) string {
	return "dashboard:gen:" + userID
}

// Get computes the dashboard of period for userID; a nil period means the current month.
func (s *Service) Get(ctx context.Context, userID string, period *analytics.Period) (*View, error) {
	ctx, span := otel.StartSpan(ctx, "dashboard.Get")
	var err error
	defer func() { otel.EndSpan(span, err) }()

	now := s.now()
	p := analytics.PeriodOf(now)
	if period != nil {
		p = *period
	}
	day := p.CurrentDay(now)
	field := fmt.Sprintf("%s:%d", p, day)

	if e, ok := s.cached(ctx, userID, field); ok {
		return s.decorate(e.Dashboard, e.State, now), nil
	}
	gen, genOK := s.generation(ctx, userID)

	var (
		habits []model.Habit
		weekly []model.WeeklyHabit
		state  *model.GameState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		habits, err = s.habits.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		weekly, err = s.weekly.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		state, err = s.game.Load(gctx, userID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard snapshot: %w", err)
	}

	dash, hit := s.memo.Compute(userID, analytics.Snapshot{
		Period:       p,
		CurrentDay:   day,
		Habits:       habits,
		WeeklyHabits: weekly,
		TotalXP:      state.TotalXP,
	})
	if hit {
		metrics.IncrementDashboardCache("memo_hit")
	} else {
		metrics.IncrementDashboardCache("miss")
	}

	if genOK {
		s.store(ctx, userID, field, gen, cacheEntry{Dashboard: dash, State: *state})
	}
	return s.decorate(dash, *state, now), nil
}

func (s *Service) decorate(d analytics.Dashboard, state model.GameState, now time.Time) *View {
	currentStreak := 0
	for _, h := range d.Habits {
		currentStreak = max(currentStreak, h.CurrentStreak)
	}
	return &View{
		Dashboard:       d,
		Level:           game.LevelFor(state.TotalXP),
		SkipStatus:      game.Status(state, now),
		StreakProtected: game.IsStreakProtected(state, now),
		Quote:           motivation.DailyQuote(now),
		Greeting:        motivation.Greeting(now.Hour()),
		Focus:           motivation.FocusMessage(d.Today.Rate),
		Coach: motivation.CoachMessage(motivation.CoachInput{
			Percentage:    d.Today.Rate,
			Hour:          now.Hour(),
			CurrentStreak: currentStreak,
			Seed:          now.YearDay(),
		}),
	}
}

func (s *Service) cached(ctx context.Context, userID, field string) (*cacheEntry, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.HGet(ctx, cacheKey(userID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("Dashboard cache read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	var e cacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.logger.Warn("Dashboard cache entry corrupt", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	metrics.IncrementDashboardCache("redis_hit")
	return &e, true
}

// generation 读取当前失效代数；读取失败时不写缓存
func (s *Service) generation(ctx context.Context, userID string) (int64, bool) {
	if s.rdb == nil {
		return 0, false
	}
	n, err := s.rdb.Get(ctx, genKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("Dashboard cache generation read failed", zap.String("user_id", userID), zap.Error(err))
		return 0, false
	}
	return n, true
}

func (s *Service) store(ctx context.Context, userID, field string, gen int64, e cacheEntry) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey(userID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, cacheKey(userID), field, raw)
			pipe.Expire(ctx, cacheKey(userID), s.ttl)
			return nil
		})
		return err
	}, genKey(userID))

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		metrics.IncrementDashboardCache("stale_skip")
		s.logger.Debug("Dashboard cache write skipped after invalidation", zap.String("user_id", userID))
	default:
		s.logger.Warn("Dashboard cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Invalidate drops the memo entry and every cached period of the user, and bumps the
// generation so loads already in flight do not write their snapshot back.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	s.memo.Forget(userID)
	if s.rdb == nil {
		return
	}
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, genKey(userID))
	pipe.Expire(ctx, genKey(userID), genTTL)
	pipe.Del(ctx, cacheKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("Dashboard cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
