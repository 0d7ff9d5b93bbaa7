package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MQ 消费延迟（毫秒）
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Total number of queries slower than the configured threshold",
		},
		[]string{"operation"},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 打卡计数
	ToggleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_toggle_total",
			Help: "Total number of habit toggles",
		},
		[]string{"kind", "direction"}, // kind: daily, weekly; direction: added, removed
	)

	// 发放的 XP
	XPAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total XP awarded to users",
		},
		[]string{"kind"},
	)

	// dashboard 缓存命中
	DashboardCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_cache_total",
			Help: "Dashboard cache lookups",
		},
		[]string{"result"}, // hit, miss, memo
	)

	// 变更失败（已回滚）
	MutationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutation_failures_total",
			Help: "Mutations that failed to persist and were reported with a rollback value",
		},
		[]string{"operation"},
	)

	// outbox 事件计数
	OutboxEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_events_total",
			Help: "Outbox events by result",
		},
		[]string{"event_type", "status"}, // status: sent, failed
	)

	// 推送通知计数
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Push notifications relayed",
		},
		[]string{"kind", "status"},
	)
)

// RecordMQConsumeLatency 记录 MQ 消费延迟
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncrementSlowQuery 增加慢查询计数
func IncrementSlowQuery(operation string) {
	SlowQueryCount.WithLabelValues(operation).Inc()
}

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementToggle 记录一次打卡
func IncrementToggle(kind string, added bool) {
	direction := "removed"
	if added {
		direction = "added"
	}
	ToggleCount.WithLabelValues(kind, direction).Inc()
}

// AddXP 记录发放的 XP
func AddXP(kind string, amount int) {
	if amount > 0 {
		XPAwarded.WithLabelValues(kind).Add(float64(amount))
	}
}

// IncrementDashboardCache 记录 dashboard 缓存结果
func IncrementDashboardCache(result string) {
	DashboardCache.WithLabelValues(result).Inc()
}

// IncrementMutationFailure 记录失败的变更
func IncrementMutationFailure(operation string) {
	MutationFailures.WithLabelValues(operation).Inc()
}

// IncrementOutbox 记录 outbox 事件结果
func IncrementOutbox(eventType, status string) {
	OutboxEvents.WithLabelValues(eventType, status).Inc()
}

// IncrementNotification 记录推送结果
func IncrementNotification(kind, status string) {
	NotificationsSent.WithLabelValues(kind, status).Inc()
}
