package mq

import (
	"context"
	"time"

	"github.com/google/uuid"

	"superoutine/pkg/trace"
)

// Routing keys on the "events" topic exchange.
const (
	RoutingHabitToggled       = "habit.toggled"
	RoutingWeeklyHabitToggled = "weekly_habit.toggled"
	RoutingLevelUp            = "gamification.level_up"
	RoutingSkipUsed           = "gamification.skip_used"
	RoutingMoodLogged         = "mood.logged"
	RoutingReminderDue        = "reminder.due"
)

// Meta 每个事件共有的字段；EventID 用于消费端去重
type Meta struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	TraceID    string    `json:"trace_id,omitempty"`
}

// NewMeta stamps a fresh event id and the trace id of ctx.
func NewMeta(ctx context.Context, userID string) Meta {
	return Meta{
		EventID:    uuid.NewString(),
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		TraceID:    trace.FromContext(ctx),
	}
}

type HabitToggledPayload struct {
	Meta
	HabitID   string `json:"habit_id"`
	HabitName string `json:"habit_name"`
	Period    string `json:"period"` // YYYY-MM
	Day       int    `json:"day"`
	Added     bool   `json:"added"`
	XPAwarded int    `json:"xp_awarded"`
	// streak of this habit ending at Day, after the toggle
	CurrentStreak  int `json:"current_streak"`
	CompletedToday int `json:"completed_today"`
	TotalHabits    int `json:"total_habits"`
}

func (p HabitToggledPayload) Aggregate() (string, string) { return "habit", p.HabitID }

type WeeklyHabitToggledPayload struct {
	Meta
	HabitID   string `json:"habit_id"`
	HabitName string `json:"habit_name"`
	Period    string `json:"period"`
	Week      int    `json:"week"`
	Added     bool   `json:"added"`
	XPAwarded int    `json:"xp_awarded"`
}

func (p WeeklyHabitToggledPayload) Aggregate() (string, string) { return "weekly_habit", p.HabitID }

type LevelUpPayload struct {
	Meta
	FromLevel int    `json:"from_level"`
	ToLevel   int    `json:"to_level"`
	Title     string `json:"title"`
	TotalXP   int    `json:"total_xp"`
}

func (p LevelUpPayload) Aggregate() (string, string) { return "gamification", p.UserID }

type SkipUsedPayload struct {
	Meta
	Date      string `json:"date"` // YYYY-MM-DD
	Remaining int    `json:"remaining"`
	Used      int    `json:"used"`
}

func (p SkipUsedPayload) Aggregate() (string, string) { return "gamification", p.UserID }

type MoodLoggedPayload struct {
	Meta
	Date string `json:"date"`
	Mood int    `json:"mood"`
}

func (p MoodLoggedPayload) Aggregate() (string, string) { return "mood", p.UserID }

type ReminderDuePayload struct {
	Meta
	Date     string `json:"date"`
	Time     string `json:"time"` // HH:MM in Timezone
	Timezone string `json:"timezone"`
	Pending  int    `json:"pending"` // habits not yet done today
	Total    int    `json:"total"`
}

func (p ReminderDuePayload) Aggregate() (string, string) { return "reminder", p.UserID }
