package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/notify"
)

// StreakMilestones 达到这些连续天数时推送一次
var StreakMilestones = []int{3, 7, 14, 21, 30}

// NotificationHandler turns domain events into push notifications.
type NotificationHandler struct {
	sender notify.Sender
	logger *zap.Logger
}

func NewNotificationHandler(sender notify.Sender, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{sender: sender, logger: logger}
}

func decodeToggle(raw json.RawMessage) (mqcontracts.HabitToggledPayload, error) {
	var p mqcontracts.HabitToggledPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

// HandlePerfectDay notifies when the day's last habit gets checked. Un-toggles never notify.
func (h *NotificationHandler) HandlePerfectDay(ctx context.Context, raw json.RawMessage) error {
	p, err := decodeToggle(raw)
	if err != nil {
		return err
	}
	if !p.Added || p.TotalHabits == 0 || p.CompletedToday != p.TotalHabits {
		return nil
	}
	msg := notify.NewMessage(p.UserID, "", "🎉 Perfect day! You crushed it!",
		fmt.Sprintf("perfect-day-%s-%d", p.Period, p.Day))
	return h.sender.Send(ctx, "perfect_day", msg)
}

// HandleStreakMilestone notifies when a check lands the habit on a milestone streak.
func (h *NotificationHandler) HandleStreakMilestone(ctx context.Context, raw json.RawMessage) error {
	p, err := decodeToggle(raw)
	if err != nil {
		return err
	}
	if !p.Added || !slices.Contains(StreakMilestones, p.CurrentStreak) {
		return nil
	}
	body := fmt.Sprintf("🔥 %d-day streak on %s. Keep it going!", p.CurrentStreak, p.HabitName)
	msg := notify.NewMessage(p.UserID, "", body,
		fmt.Sprintf("streak-%s-%d", p.HabitID, p.CurrentStreak))
	return h.sender.Send(ctx, "streak_milestone", msg)
}

// HandleLevelUp announces the new level and title.
func (h *NotificationHandler) HandleLevelUp(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.LevelUpPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if p.ToLevel <= p.FromLevel {
		return nil
	}
	body := fmt.Sprintf("⚡ Level %d reached: %s (%d XP)", p.ToLevel, p.Title, p.TotalXP)
	msg := notify.NewMessage(p.UserID, "Level up!", body, fmt.Sprintf("level-%d", p.ToLevel))
	return h.sender.Send(ctx, "level_up", msg)
}

// HandleReminderDue delivers the daily reminder.
func (h *NotificationHandler) HandleReminderDue(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.ReminderDuePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	msg := notify.NewMessage(p.UserID, "Superoutine reminder", ReminderBody(p.Pending, p.Total),
		"reminder-"+p.Date)
	return h.sender.Send(ctx, "reminder", msg)
}

// ReminderBody is the reminder text for the given open/total habit counts.
func ReminderBody(pending, total int) string {
	switch {
	case total == 0:
		return "Time to plan your habits for today."
	case pending == 0:
		return "All habits done today. Nice work!"
	case pending == 1:
		return fmt.Sprintf("1 of %d habits left for today.", total)
	default:
		return fmt.Sprintf("%d of %d habits left for today.", pending, total)
	}
}

// Register binds each handler to its routing key through the guard. Every notification
// kind gets its own queue, so a retried delivery never repeats a push that already went out.
func (h *NotificationHandler) Register(g *Guard) []Binding {
	return []Binding{
		h.bind(g, "perfect_day", mqcontracts.RoutingHabitToggled, h.HandlePerfectDay),
		h.bind(g, "streak_milestone", mqcontracts.RoutingHabitToggled, h.HandleStreakMilestone),
		h.bind(g, "level_up", mqcontracts.RoutingLevelUp, h.HandleLevelUp),
		h.bind(g, "reminder_due", mqcontracts.RoutingReminderDue, h.HandleReminderDue),
	}
}

func (h *NotificationHandler) bind(g *Guard, name, routingKey string, fn HandlerFunc) Binding {
	return Binding{
		Name:       name,
		RoutingKey: routingKey,
		Queue:      "worker." + name,
		Handler:    g.Wrap(name, routingKey, fn),
	}
}
