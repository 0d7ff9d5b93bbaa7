package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"superoutine/pkg/metrics"
	"superoutine/pkg/otel"
)

type queryKey struct{}

type queryInfo struct {
	start time.Time
	sql   string
	span  trace.Span
}

// QueryTracer 为每条查询创建 span，记录耗时指标，并对慢查询告警
type QueryTracer struct {
	logger        *zap.Logger
	slowThreshold time.Duration
}

// NewQueryTracer 创建查询 Tracer，slowThreshold 为 0 时默认 100ms
func NewQueryTracer(logger *zap.Logger, slowThreshold time.Duration) *QueryTracer {
	if slowThreshold == 0 {
		slowThreshold = 100 * time.Millisecond
	}
	return &QueryTracer{
		logger:        logger,
		slowThreshold: slowThreshold,
	}
}

// TraceQueryStart 查询开始时的钩子
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	op := operation(data.SQL)
	ctx, span := otel.StartSpan(ctx, "db."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", op),
			attribute.String("db.statement", truncate(data.SQL, 200)),
		),
	)
	return context.WithValue(ctx, queryKey{}, &queryInfo{start: time.Now(), sql: data.SQL, span: span})
}

// TraceQueryEnd 查询结束时的钩子
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	info, ok := ctx.Value(queryKey{}).(*queryInfo)
	if !ok {
		return
	}
	duration := time.Since(info.start)
	op := operation(info.sql)

	metrics.RecordDBQueryDuration(op, duration)
	otel.EndSpan(info.span, data.Err)

	if duration > t.slowThreshold {
		sql := truncate(info.sql, 200)
		t.logger.Warn("slow-query",
			zap.String("sql", sql),
			zap.Duration("took", duration),
			zap.String("command_tag", data.CommandTag.String()),
		)
		metrics.IncrementSlowQuery(op)
	}
}

// operation 取 SQL 第一个关键字作为操作名
func operation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
