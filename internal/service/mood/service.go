package mood

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/events"
	"superoutine/internal/model"
	"superoutine/internal/motivation"
	"superoutine/internal/repository"
)

// RecentDays 心情面板展示最近 7 条
const RecentDays = 7

var ErrFutureDate = errors.New("cannot log a mood for a future date")

// Entry 带标签的心情记录
type Entry struct {
	model.MoodCheckin
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Overview is the response of GET /v1/moods.
type Overview struct {
	Today   *Entry  `json:"today,omitempty"`
	Recent  []Entry `json:"recent"`
	Average float64 `json:"average"`
}

type Service struct {
	repo   repository.MoodRepository
	events events.Emitter
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo repository.MoodRepository, emitter events.Emitter, logger *zap.Logger) *Service {
	return &Service{repo: repo, events: emitter, logger: logger, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

// Log upserts the check-in for in.Date (today when empty).
func (s *Service) Log(ctx context.Context, userID string, in model.MoodInput) (Entry, error) {
	if err := in.Validate(); err != nil {
		return Entry{}, err
	}
	date := in.Date
	if date == "" {
		date = s.today()
	}
	// YYYY-MM-DD 可以直接按字符串比较
	if date > s.today() {
		return Entry{}, ErrFutureDate
	}

	m := model.MoodCheckin{UserID: userID, Date: date, Mood: in.Mood}
	if err := s.repo.Upsert(ctx, &m); err != nil {
		return Entry{}, fmt.Errorf("log mood: %w", err)
	}
	s.logger.Info("Mood logged", zap.String("user_id", userID), zap.String("date", date), zap.Int("mood", in.Mood))

	payload := mqcontracts.MoodLoggedPayload{
		Meta: mqcontracts.NewMeta(ctx, userID),
		Date: date,
		Mood: in.Mood,
	}
	if err := s.events.PublishWithContext(ctx, mqcontracts.RoutingMoodLogged, payload); err != nil {
		s.logger.Error("Failed to emit mood logged", zap.String("user_id", userID), zap.Error(err))
	}
	return label(m), nil
}

// Overview returns the recent check-ins, newest first, with their average.
func (s *Service) Overview(ctx context.Context, userID string) (Overview, error) {
	recent, err := s.repo.Recent(ctx, userID, RecentDays)
	if err != nil {
		return Overview{}, fmt.Errorf("recent moods: %w", err)
	}

	out := Overview{Recent: make([]Entry, 0, len(recent))}
	values := make([]int, 0, len(recent))
	today := s.today()
	for _, m := range recent {
		e := label(m)
		out.Recent = append(out.Recent, e)
		values = append(values, m.Mood)
		if m.Date == today {
			out.Today = &e
		}
	}
	out.Average = motivation.AverageMood(values)
	return out, nil
}

func label(m model.MoodCheckin) Entry {
	e := Entry{MoodCheckin: m}
	if l, ok := motivation.Mood(m.Mood); ok {
		e.Emoji, e.Label = l.Emoji, l.Label
	}
	return e
}
