package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/analytics"
	"superoutine/internal/events"
	"superoutine/internal/repository"
)

// Scheduler 周期性检查到期提醒并发布 reminder.due
type Scheduler struct {
	reminders repository.ReminderRepository
	habits    repository.HabitRepository
	events    events.Emitter
	logger    *zap.Logger
	interval  time.Duration
}

func NewScheduler(
	reminders repository.ReminderRepository,
	habits repository.HabitRepository,
	emitter events.Emitter,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		reminders: reminders,
		habits:    habits,
		events:    emitter,
		logger:    logger,
		interval:  interval,
	}
}

// Start ticks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Reminder scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler stopped")
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}

// Tick publishes reminder.due for every enabled reminder whose occurrence today has
// passed and that was not sent yet today. It returns how many were published.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	settings, err := s.reminders.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("Failed to list reminders", zap.Error(err))
		return 0
	}

	sent := 0
	for _, rs := range settings {
		due, err := DueAt(rs, now)
		if err != nil {
			s.logger.Warn("Skipping invalid reminder", zap.String("user_id", rs.UserID), zap.Error(err))
			continue
		}
		date := due.Format("2006-01-02")
		if rs.LastSentOn == date || now.Before(due) {
			continue
		}

		payload := mqcontracts.ReminderDuePayload{
			Meta:     mqcontracts.NewMeta(ctx, rs.UserID),
			Date:     date,
			Time:     rs.Time,
			Timezone: rs.Timezone,
		}
		if habits, err := s.habits.List(ctx, rs.UserID); err == nil {
			today := analytics.Today(habits, due.Day())
			payload.Total = today.Possible
			payload.Pending = today.Possible - today.Completed
		}

		if err := s.events.PublishWithContext(ctx, mqcontracts.RoutingReminderDue, payload); err != nil {
			s.logger.Error("Failed to publish reminder", zap.String("user_id", rs.UserID), zap.Error(err))
			continue
		}
		if err := s.reminders.MarkSent(ctx, rs.UserID, date); err != nil {
			s.logger.Error("Failed to mark reminder sent", zap.String("user_id", rs.UserID), zap.Error(err))
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("Reminders published", zap.Int("count", sent))
	}
	return sent
}
