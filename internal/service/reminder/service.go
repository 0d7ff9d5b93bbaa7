package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"superoutine/internal/model"
	"superoutine/internal/repository"
)

type Service struct {
	repo   repository.ReminderRepository
	logger *zap.Logger
}

func NewService(repo repository.ReminderRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns the stored settings or the defaults (09:00 UTC, disabled).
func (s *Service) Get(ctx context.Context, userID string) (model.ReminderSettings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.DefaultReminderSettings(userID), nil
	}
	if err != nil {
		return model.ReminderSettings{}, err
	}
	return *settings, nil
}

func (s *Service) Save(ctx context.Context, userID string, in model.ReminderInput) (model.ReminderSettings, error) {
	if err := in.Validate(); err != nil {
		return model.ReminderSettings{}, err
	}
	current, err := s.Get(ctx, userID)
	if err != nil {
		return model.ReminderSettings{}, err
	}

	current.Enabled = in.Enabled
	current.Time = in.Time
	if in.Timezone != "" {
		current.Timezone = in.Timezone
	}
	if err := s.repo.Save(ctx, &current); err != nil {
		return model.ReminderSettings{}, fmt.Errorf("save reminder settings: %w", err)
	}
	s.logger.Info("Reminder settings saved",
		zap.String("user_id", userID),
		zap.Bool("enabled", current.Enabled),
		zap.String("time", current.Time),
	)
	return current, nil
}

// DueAt is the reminder occurrence on the local calendar date of day, in the
// settings' timezone.
func DueAt(settings model.ReminderSettings, day time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	at, err := time.Parse("15:04", settings.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder time %q: %w", settings.Time, err)
	}

	local := day.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Dtstart:  start,
		Byhour:   []int{at.Hour()},
		Byminute: []int{at.Minute()},
		Bysecond: []int{0},
	})
	if err != nil {
		return time.Time{}, err
	}
	due := r.After(start, true)
	if due.IsZero() {
		return time.Time{}, fmt.Errorf("no reminder occurrence on %s", start.Format("2006-01-02"))
	}
	return due, nil
}
