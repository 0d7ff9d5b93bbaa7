package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Emitter 发布领域事件；*mq.Publisher 与 *outbox.Emitter 都满足该接口
type Emitter interface {
	PublishWithContext(ctx context.Context, routingKey string, payload any) error
}

// LogEmitter logs events instead of publishing them. Used when no broker is configured.
type LogEmitter struct {
	logger *zap.Logger
}

func NewLogEmitter(logger *zap.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) PublishWithContext(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	e.logger.Info("Event emitted (no broker)",
		zap.String("routing_key", routingKey),
		zap.ByteString("payload", body),
	)
	return nil
}

// Recorded is one event captured by Recorder.
type Recorded struct {
	RoutingKey string
	Payload    any
}

// Recorder keeps emitted events in memory; tests use it to assert on side effects.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
	Err    error
}

func (r *Recorder) PublishWithContext(_ context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Recorded{RoutingKey: routingKey, Payload: payload})
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

// Keys lists the routing keys in emit order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.events))
	for i, e := range r.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
