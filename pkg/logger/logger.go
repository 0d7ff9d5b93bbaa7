package logger

import (
	"context"

	"go.uber.org/zap"

	"superoutine/pkg/trace"
)

// Log 供无法注入 logger 的代码路径使用
var Log = zap.NewNop()

// NewLogger 创建 logger：local 环境使用开发模式，其余使用生产模式
func NewLogger(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if env == "local" || env == "test" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	Log = l
	return l
}

// WithTrace 从 context 中提取 trace_id 并添加到 logger
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if traceID := trace.FromContext(ctx); traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
