package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// aggregated 由携带聚合信息的 payload 实现
type aggregated interface {
	Aggregate() (aggregateType, aggregateID string)
}

// Emitter 把事件写入 outbox，由 Dispatcher 异步投递到 MQ
type Emitter struct {
	repo   *Repository
	logger *zap.Logger
}

// NewEmitter 创建 outbox Emitter
func NewEmitter(repo *Repository, logger *zap.Logger) *Emitter {
	return &Emitter{repo: repo, logger: logger}
}

// PublishWithContext 与 mq.Publisher 同签名，调用方可以互换
func (e *Emitter) PublishWithContext(ctx context.Context, routingKey string, payload any) error {
	return e.InsertInTx(ctx, nil, routingKey, payload)
}

// InsertInTx 在给定事务中写入事件，q 为 nil 时使用连接池
func (e *Emitter) InsertInTx(ctx context.Context, q Querier, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	event := &Event{RoutingKey: routingKey, Payload: body, Status: StatusPending}
	if a, ok := payload.(aggregated); ok {
		event.AggregateType, event.AggregateID = a.Aggregate()
	}

	if err := e.repo.InsertEvent(ctx, q, event); err != nil {
		e.logger.Error("Failed to insert outbox event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return err
	}

	e.logger.Debug("Outbox event stored",
		zap.Int64("event_id", event.ID),
		zap.String("routing_key", routingKey),
	)
	return nil
}
