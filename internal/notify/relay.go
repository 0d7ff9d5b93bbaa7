package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"superoutine/pkg/circuitbreaker"
	"superoutine/pkg/metrics"
)

// DefaultTitle 与浏览器 service worker 的默认标题一致
const DefaultTitle = "Superoutine"

// Options 对应 Notification API 的 options
type Options struct {
	Body string `json:"body"`
	Tag  string `json:"tag,omitempty"`
}

// Message 是 service worker 认识的 show-notification 消息
type Message struct {
	Type    string  `json:"type"`
	UserID  string  `json:"user_id"`
	Title   string  `json:"title"`
	Options Options `json:"options"`
}

// NewMessage builds a show-notification message; an empty title falls back to DefaultTitle.
func NewMessage(userID, title, body, tag string) Message {
	if title == "" {
		title = DefaultTitle
	}
	return Message{
		Type:    "show-notification",
		UserID:  userID,
		Title:   title,
		Options: Options{Body: body, Tag: tag},
	}
}

// Sender delivers a notification to the user's devices.
type Sender interface {
	Send(ctx context.Context, kind string, msg Message) error
}

// StatusError 推送中继返回的非 2xx 响应
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push relay returned %d: %s", e.Code, e.Body)
}

// StatusCode lets util.IsRetryableError classify 429/5xx as retryable.
func (e *StatusError) StatusCode() int { return e.Code }

// Relay posts messages to the push relay through a circuit breaker.
type Relay struct {
	url        string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewRelay(url string, timeout time.Duration, logger *zap.Logger) *Relay {
	cfg := circuitbreaker.DefaultConfig("push-relay")
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		logger.Warn("Circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return &Relay{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.New(cfg),
		logger:     logger,
	}
}

func (r *Relay) Send(ctx context.Context, kind string, msg Message) error {
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.post(ctx, msg)
	})
	status := "sent"
	if err != nil {
		status = "failed"
	}
	metrics.IncrementNotification(kind, status)
	return err
}

func (r *Relay) post(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	r.logger.Debug("Notification relayed",
		zap.String("user_id", msg.UserID),
		zap.String("title", msg.Title),
	)
	return nil
}

// LogSender 未配置推送中继时只记录日志
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, kind string, msg Message) error {
	s.logger.Info("Notification (no relay configured)",
		zap.String("kind", kind),
		zap.String("user_id", msg.UserID),
		zap.String("title", msg.Title),
		zap.String("body", msg.Options.Body),
	)
	metrics.IncrementNotification(kind, "logged")
	return nil
}
