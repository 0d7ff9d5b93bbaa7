package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	mqcontracts "superoutine/contracts/mq"
	"superoutine/pkg/mq"
	"superoutine/pkg/util"
)

// Deduper 按 handler + event_id 去重；*util.Deduper 满足该接口
type Deduper interface {
	AcquireOnce(ctx context.Context, handler string, eventID string) bool
	Release(ctx context.Context, handler string, eventID string)
}

// RetryCounter *util.RetryCounter 满足该接口
type RetryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// DeadLetter *mq.Publisher 满足该接口
type DeadLetter interface {
	PublishToDLQ(ctx context.Context, routingKey string, payload []byte, originalError string) error
}

// HandlerFunc processes one decoded delivery.
type HandlerFunc func(ctx context.Context, raw json.RawMessage) error

// Guard wraps handlers with panic recovery, dedupe, bounded retries and dead lettering.
//
// Return contract towards mq.Consumer: nil acks the delivery, an error nacks it with requeue.
// Only retryable failures under the retry budget return an error.
type Guard struct {
	deduper    Deduper
	retries    RetryCounter
	dlq        DeadLetter
	maxRetries int64
	logger     *zap.Logger
}

func NewGuard(deduper Deduper, retries RetryCounter, dlq DeadLetter, maxRetries int64, logger *zap.Logger) *Guard {
	return &Guard{
		deduper:    deduper,
		retries:    retries,
		dlq:        dlq,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Wrap returns an mq.MessageHandler running fn under the guard.
func (g *Guard) Wrap(name, routingKey string, fn HandlerFunc) mq.MessageHandler {
	return func(ctx context.Context, raw json.RawMessage) (err error) {
		defer func() {
			if r := recover(); r != nil {
				g.logger.Error("Panic in handler",
					zap.String("handler", name),
					zap.Any("panic", r),
				)
				g.deadLetter(ctx, name, routingKey, raw, fmt.Sprintf("panic: %v", r))
				err = nil
			}
		}()

		var meta mqcontracts.Meta
		if err := json.Unmarshal(raw, &meta); err != nil || meta.EventID == "" {
			// 格式错误不可重试
			g.logger.Error("Malformed event payload, sending to DLQ",
				zap.String("handler", name),
				zap.String("raw_payload", string(raw)),
				zap.Error(err),
			)
			reason := "missing_event_id"
			if err != nil {
				reason = "json_unmarshal_error: " + err.Error()
			}
			g.deadLetter(ctx, name, routingKey, raw, reason)
			return nil
		}

		if g.deduper != nil && !g.deduper.AcquireOnce(ctx, name, meta.EventID) {
			return nil
		}

		retryKey := util.FormatRetryKey(name, meta.EventID)
		handleErr := fn(ctx, raw)
		if handleErr == nil {
			g.resetRetries(ctx, retryKey)
			return nil
		}

		isRetryable, errType := util.IsRetryableError(handleErr)
		retryCount := int64(1)
		if isRetryable && g.retries != nil {
			n, err := g.retries.IncrementAndGet(ctx, retryKey)
			if err != nil {
				g.logger.Warn("Failed to get retry count, continuing anyway",
					zap.String("event_id", meta.EventID),
					zap.Error(err),
				)
			} else {
				retryCount = n
			}
		}

		g.logger.Error("Handler failed",
			zap.String("handler", name),
			zap.String("event_id", meta.EventID),
			zap.String("user_id", meta.UserID),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Int64("retry_count", retryCount),
			zap.Error(handleErr),
		)

		if util.ShouldRetry(retryCount, g.maxRetries, isRetryable) {
			// 释放去重锁，否则重投的消息会被当成重复
			if g.deduper != nil {
				g.deduper.Release(ctx, name, meta.EventID)
			}
			return handleErr
		}

		g.deadLetter(ctx, name, routingKey, raw, errType+": "+handleErr.Error())
		g.resetRetries(ctx, retryKey)
		return nil
	}
}

func (g *Guard) deadLetter(ctx context.Context, name, routingKey string, raw []byte, reason string) {
	if g.dlq == nil {
		return
	}
	if err := g.dlq.PublishToDLQ(ctx, routingKey, raw, reason); err != nil {
		g.logger.Error("Failed to publish to DLQ",
			zap.String("handler", name),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return
	}
	g.logger.Warn("Message sent to DLQ",
		zap.String("handler", name),
		zap.String("routing_key", routingKey),
		zap.String("reason", reason),
	)
}

func (g *Guard) resetRetries(ctx context.Context, key string) {
	if g.retries == nil {
		return
	}
	if err := g.retries.Reset(ctx, key); err != nil {
		g.logger.Debug("Failed to reset retry counter", zap.String("retry_key", key), zap.Error(err))
	}
}

// Binding 一个队列、它订阅的 routing key 与已包装的 handler
type Binding struct {
	Name       string
	RoutingKey string
	Queue      string
	Handler    mq.MessageHandler
}
