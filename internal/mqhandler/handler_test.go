package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/internal/notify"
	"superoutine/pkg/util"
)

type sent struct {
	kind string
	msg  notify.Message
}

type fakeSender struct {
	mu       sync.Mutex
	sent     []sent
	err      error
	failKind string
}

func (s *fakeSender) Send(_ context.Context, kind string, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil && (s.failKind == "" || s.failKind == kind) {
		return s.err
	}
	s.sent = append(s.sent, sent{kind: kind, msg: msg})
	return nil
}

type memDeduper struct {
	seen     map[string]bool
	released int
}

func (d *memDeduper) AcquireOnce(_ context.Context, handler, eventID string) bool {
	key := handler + ":" + eventID
	if d.seen[key] {
		return false
	}
	d.seen[key] = true
	return true
}

func (d *memDeduper) Release(_ context.Context, handler, eventID string) {
	delete(d.seen, handler+":"+eventID)
	d.released++
}

type memCounter struct{ counts map[string]int64 }

func (c *memCounter) IncrementAndGet(_ context.Context, key string) (int64, error) {
	c.counts[key]++
	return c.counts[key], nil
}

func (c *memCounter) Reset(_ context.Context, key string) error {
	delete(c.counts, key)
	return nil
}

type memDLQ struct{ reasons []string }

func (d *memDLQ) PublishToDLQ(_ context.Context, _ string, _ []byte, reason string) error {
	d.reasons = append(d.reasons, reason)
	return nil
}

func newGuard(maxRetries int64) (*Guard, *memDeduper, *memCounter, *memDLQ) {
	dd := &memDeduper{seen: map[string]bool{}}
	rc := &memCounter{counts: map[string]int64{}}
	dlq := &memDLQ{}
	return NewGuard(dd, rc, dlq, maxRetries, zap.NewNop()), dd, rc, dlq
}

func encode(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func toggled(streak, done, total int, added bool) mqcontracts.HabitToggledPayload {
	return mqcontracts.HabitToggledPayload{
		Meta:           mqcontracts.Meta{EventID: "evt-1", UserID: "u1"},
		HabitID:        "h1",
		HabitName:      "Read",
		Period:         "2025-03",
		Day:            14,
		Added:          added,
		CurrentStreak:  streak,
		CompletedToday: done,
		TotalHabits:    total,
	}
}

func TestHandleHabitToggledKinds(t *testing.T) {
	tests := []struct {
		name  string
		in    mqcontracts.HabitToggledPayload
		kinds []string
	}{
		{"plain check", toggled(2, 1, 3, true), nil},
		{"milestone", toggled(7, 1, 3, true), []string{"streak_milestone"}},
		{"perfect day", toggled(1, 3, 3, true), []string{"perfect_day"}},
		{"both", toggled(3, 2, 2, true), []string{"perfect_day", "streak_milestone"}},
		{"un-toggle", toggled(7, 3, 3, false), nil},
		{"no habits", toggled(0, 0, 0, true), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			h := NewNotificationHandler(sender, zap.NewNop())
			raw := encode(t, tt.in)
			require.NoError(t, h.HandlePerfectDay(context.Background(), raw))
			require.NoError(t, h.HandleStreakMilestone(context.Background(), raw))

			var kinds []string
			for _, s := range sender.sent {
				kinds = append(kinds, s.kind)
				assert.Equal(t, "u1", s.msg.UserID)
				assert.Equal(t, "show-notification", s.msg.Type)
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestHandleLevelUp(t *testing.T) {
	sender := &fakeSender{}
	h := NewNotificationHandler(sender, zap.NewNop())
	p := mqcontracts.LevelUpPayload{
		Meta:      mqcontracts.Meta{EventID: "evt-2", UserID: "u1"},
		FromLevel: 2,
		ToLevel:   3,
		Title:     "Beginner",
		TotalXP:   300,
	}
	require.NoError(t, h.HandleLevelUp(context.Background(), encode(t, p)))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Level up!", sender.sent[0].msg.Title)
	assert.Contains(t, sender.sent[0].msg.Options.Body, "Level 3")
	assert.Contains(t, sender.sent[0].msg.Options.Body, "Beginner")
}

func TestHandleReminderDue(t *testing.T) {
	sender := &fakeSender{}
	h := NewNotificationHandler(sender, zap.NewNop())
	p := mqcontracts.ReminderDuePayload{
		Meta:    mqcontracts.Meta{EventID: "evt-3", UserID: "u1"},
		Date:    "2025-03-14",
		Time:    "20:00",
		Pending: 2,
		Total:   5,
	}
	require.NoError(t, h.HandleReminderDue(context.Background(), encode(t, p)))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Superoutine reminder", sender.sent[0].msg.Title)
	assert.Equal(t, "2 of 5 habits left for today.", sender.sent[0].msg.Options.Body)
	assert.Equal(t, "reminder-2025-03-14", sender.sent[0].msg.Options.Tag)
}

func TestReminderBody(t *testing.T) {
	assert.Equal(t, "Time to plan your habits for today.", ReminderBody(0, 0))
	assert.Equal(t, "All habits done today. Nice work!", ReminderBody(0, 4))
	assert.Equal(t, "1 of 4 habits left for today.", ReminderBody(1, 4))
}

func TestGuard_SuccessAndDuplicate(t *testing.T) {
	g, _, _, dlq := newGuard(3)
	calls := 0
	handler := g.Wrap("test", "habit.toggled", func(context.Context, json.RawMessage) error {
		calls++
		return nil
	})
	raw := encode(t, toggled(1, 1, 2, true))

	require.NoError(t, handler(context.Background(), raw))
	require.NoError(t, handler(context.Background(), raw))
	assert.Equal(t, 1, calls)
	assert.Empty(t, dlq.reasons)
}

func TestGuard_RetryableThenDLQ(t *testing.T) {
	g, dd, _, dlq := newGuard(2)
	upstream := &notify.StatusError{Code: 503, Body: "down"}
	handler := g.Wrap("test", "habit.toggled", func(context.Context, json.RawMessage) error {
		return upstream
	})
	raw := encode(t, toggled(1, 1, 2, true))

	// 两次重试内返回 error，让 consumer nack
	assert.ErrorIs(t, handler(context.Background(), raw), upstream)
	assert.ErrorIs(t, handler(context.Background(), raw), upstream)
	assert.Equal(t, 2, dd.released)

	// 第三次超过上限，进入 DLQ 并 ack
	assert.NoError(t, handler(context.Background(), raw))
	require.Len(t, dlq.reasons, 1)
	assert.Contains(t, dlq.reasons[0], "upstream_unavailable")
}

func TestGuard_NonRetryableGoesToDLQ(t *testing.T) {
	g, _, rc, dlq := newGuard(5)
	handler := g.Wrap("test", "habit.toggled", func(context.Context, json.RawMessage) error {
		return util.Permanent(errors.New("bad data"))
	})

	assert.NoError(t, handler(context.Background(), encode(t, toggled(1, 1, 2, true))))
	require.Len(t, dlq.reasons, 1)
	assert.Contains(t, dlq.reasons[0], "permanent")
	assert.Empty(t, rc.counts)
}

func TestGuard_MalformedPayload(t *testing.T) {
	g, _, _, dlq := newGuard(5)
	called := false
	handler := g.Wrap("test", "habit.toggled", func(context.Context, json.RawMessage) error {
		called = true
		return nil
	})

	assert.NoError(t, handler(context.Background(), json.RawMessage(`{not json`)))
	assert.NoError(t, handler(context.Background(), json.RawMessage(`{"user_id":"u1"}`)))
	assert.False(t, called)
	assert.Len(t, dlq.reasons, 2)
}

func TestGuard_PanicIsAcked(t *testing.T) {
	g, _, _, dlq := newGuard(5)
	handler := g.Wrap("test", "habit.toggled", func(context.Context, json.RawMessage) error {
		panic("boom")
	})

	assert.NoError(t, handler(context.Background(), encode(t, toggled(1, 1, 2, true))))
	require.Len(t, dlq.reasons, 1)
	assert.Equal(t, "panic: boom", dlq.reasons[0])
}

func TestRegister(t *testing.T) {
	g, _, _, _ := newGuard(3)
	h := NewNotificationHandler(&fakeSender{}, zap.NewNop())
	bindings := h.Register(g)
	assert.Len(t, bindings, 4)

	queues := map[string]bool{}
	for _, b := range bindings {
		assert.NotEmpty(t, b.RoutingKey, b.Name)
		assert.NotNil(t, b.Handler, b.Name)
		assert.False(t, queues[b.Queue], "queue %s bound twice", b.Queue)
		queues[b.Queue] = true
	}
}

func bindingNamed(t *testing.T, bindings []Binding, name string) Binding {
	t.Helper()
	for _, b := range bindings {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no binding %q", name)
	return Binding{}
}

func TestMilestoneRetryDoesNotRepeatPerfectDay(t *testing.T) {
	g, _, _, dlq := newGuard(3)
	sender := &fakeSender{err: &notify.StatusError{Code: 503, Body: "down"}, failKind: "streak_milestone"}
	bindings := NewNotificationHandler(sender, zap.NewNop()).Register(g)
	raw := encode(t, toggled(7, 3, 3, true))

	perfect := bindingNamed(t, bindings, "perfect_day")
	milestone := bindingNamed(t, bindings, "streak_milestone")

	require.NoError(t, perfect.Handler(context.Background(), raw))
	require.Error(t, milestone.Handler(context.Background(), raw))

	// 只有 milestone 队列会重投
	sender.err = nil
	require.NoError(t, milestone.Handler(context.Background(), raw))

	var kinds []string
	for _, s := range sender.sent {
		kinds = append(kinds, s.kind)
	}
	assert.Equal(t, []string{"perfect_day", "streak_milestone"}, kinds)
	assert.Empty(t, dlq.reasons)
}

func TestLocalBusDeliversToBinding(t *testing.T) {
	g, _, _, _ := newGuard(3)
	sender := &fakeSender{}
	bus := NewLocalBus(NewNotificationHandler(sender, zap.NewNop()).Register(g), zap.NewNop())

	p := mqcontracts.ReminderDuePayload{
		Meta:  mqcontracts.Meta{EventID: "evt-9", UserID: "u1"},
		Date:  "2025-03-14",
		Total: 0,
	}
	require.NoError(t, bus.PublishWithContext(context.Background(), mqcontracts.RoutingReminderDue, p))
	require.NoError(t, bus.PublishWithContext(context.Background(), mqcontracts.RoutingMoodLogged, p))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "reminder", sender.sent[0].kind)
}

func TestLocalBusFansOutToggle(t *testing.T) {
	g, _, _, _ := newGuard(3)
	sender := &fakeSender{}
	bus := NewLocalBus(NewNotificationHandler(sender, zap.NewNop()).Register(g), zap.NewNop())

	require.NoError(t, bus.PublishWithContext(context.Background(), mqcontracts.RoutingHabitToggled, toggled(3, 2, 2, true)))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "perfect_day", sender.sent[0].kind)
	assert.Equal(t, "streak_milestone", sender.sent[1].kind)
}
