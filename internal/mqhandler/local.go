package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// LocalBus delivers events to guarded handlers in-process. The worker uses it when no
// broker is configured, so reminders still reach the notifier.
type LocalBus struct {
	bindings map[string][]Binding
	logger   *zap.Logger
}

func NewLocalBus(bindings []Binding, logger *zap.Logger) *LocalBus {
	byKey := make(map[string][]Binding)
	for _, b := range bindings {
		byKey[b.RoutingKey] = append(byKey[b.RoutingKey], b)
	}
	return &LocalBus{bindings: byKey, logger: logger}
}

// PublishWithContext runs every handler bound to routingKey; unbound keys are dropped.
func (b *LocalBus) PublishWithContext(ctx context.Context, routingKey string, payload any) error {
	bound := b.bindings[routingKey]
	if len(bound) == 0 {
		b.logger.Debug("No local handler for event", zap.String("routing_key", routingKey))
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}
	var errs []error
	for _, binding := range bound {
		if err := binding.Handler(ctx, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", binding.Name, err))
		}
	}
	return errors.Join(errs...)
}
