package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superoutine/pkg/trace"
)

type memStore struct {
	events map[int64]*Event
}

func newMemStore(events ...*Event) *memStore {
	s := &memStore{events: map[int64]*Event{}}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (s *memStore) GetPendingEvents(_ context.Context, limit int) ([]*Event, error) {
	return s.byStatus(StatusPending, limit), nil
}

func (s *memStore) GetFailedEvents(_ context.Context, limit int) ([]*Event, error) {
	return s.byStatus(StatusFailed, limit), nil
}

func (s *memStore) byStatus(status string, limit int) []*Event {
	var out []*Event
	for id := int64(1); id <= int64(len(s.events)) && len(out) < limit; id++ {
		if e, ok := s.events[id]; ok && e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) GetEventByID(_ context.Context, id int64) (*Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrEventNotFound, id)
	}
	return e, nil
}

func (s *memStore) MarkAsSent(_ context.Context, id int64) error {
	s.events[id].Status = StatusSent
	return nil
}

func (s *memStore) MarkAsFailed(_ context.Context, event *Event, maxRetries int) error {
	event.Status, event.RetryCount, event.NextRetryAt = nextAttempt(event.RetryCount, maxRetries, time.Now())
	return nil
}

type recordingPublisher struct {
	fail     map[string]bool
	keys     []string
	traceIDs []string
}

func (p *recordingPublisher) PublishWithContext(ctx context.Context, routingKey string, payload any) error {
	if p.fail[routingKey] {
		return errors.New("broker down")
	}
	p.keys = append(p.keys, routingKey)
	p.traceIDs = append(p.traceIDs, trace.FromContext(ctx))
	return nil
}

func event(id int64, key, payload string) *Event {
	return &Event{ID: id, RoutingKey: key, Payload: json.RawMessage(payload), Status: StatusPending}
}

func TestProcessPendingPublishesAndMarks(t *testing.T) {
	store := newMemStore(
		event(1, "habit.toggled", `{"trace_id":"t-1"}`),
		event(2, "mood.logged", `{}`),
	)
	pub := &recordingPublisher{}
	d := NewDispatcher(store, pub, zap.NewNop())

	sent := d.ProcessPending(context.Background())

	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"habit.toggled", "mood.logged"}, pub.keys)
	assert.Equal(t, []string{"t-1", ""}, pub.traceIDs)
	assert.Equal(t, StatusSent, store.events[1].Status)
	assert.Equal(t, StatusSent, store.events[2].Status)
}

func TestProcessPendingBacksOffThenFails(t *testing.T) {
	store := newMemStore(event(1, "habit.toggled", `{}`))
	pub := &recordingPublisher{fail: map[string]bool{"habit.toggled": true}}
	d := NewDispatcher(store, pub, zap.NewNop()).WithMaxRetries(2)

	assert.Equal(t, 0, d.ProcessPending(context.Background()))
	assert.Equal(t, StatusPending, store.events[1].Status)
	assert.Equal(t, 1, store.events[1].RetryCount)
	require.NotNil(t, store.events[1].NextRetryAt)

	d.ProcessPending(context.Background())
	assert.Equal(t, StatusFailed, store.events[1].Status)
	assert.Nil(t, store.events[1].NextRetryAt)
}

func TestReplayFailedEvents(t *testing.T) {
	failed := event(1, "gamification.level_up", `{}`)
	failed.Status = StatusFailed
	store := newMemStore(failed, event(2, "mood.logged", `{}`))
	pub := &recordingPublisher{}

	n, err := NewReplayService(store, pub, zap.NewNop()).ReplayFailedEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"gamification.level_up"}, pub.keys)
	assert.Equal(t, StatusSent, store.events[1].Status)
}

func TestReplayUnknownEvent(t *testing.T) {
	err := NewReplayService(newMemStore(), &recordingPublisher{}, zap.NewNop()).ReplayEvent(context.Background(), 9)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestNextAttempt(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	status, count, next := nextAttempt(0, 5, now)
	assert.Equal(t, StatusPending, status)
	assert.Equal(t, 1, count)
	assert.Equal(t, now.Add(5*time.Second), *next)

	status, count, next = nextAttempt(2, 5, now)
	assert.Equal(t, StatusPending, status)
	assert.Equal(t, 3, count)
	assert.Equal(t, now.Add(15*time.Second), *next)

	status, count, next = nextAttempt(4, 5, now)
	assert.Equal(t, StatusFailed, status)
	assert.Equal(t, 5, count)
	assert.Nil(t, next)
}
