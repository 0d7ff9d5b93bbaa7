package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"superoutine/pkg/metrics"
	"superoutine/pkg/rbac"
	"superoutine/pkg/trace"
	"superoutine/pkg/util"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// AuthMiddleware 校验 bearer token，并把 user_id 与 role 放入 gin context
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, rbac.NormalizeRole(claims.Role))
		c.Next()
	}
}

// RequirePermission 中间件：要求用户具有指定权限
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		if err := rbac.CheckPermission(userID, c.GetString(ctxRole), permission); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		c.Next()
	}
}

// TraceMiddleware 读取或生成 X-Trace-ID，并写回响应头
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(trace.HeaderName); id != "" {
			ctx = trace.WithContext(ctx, id)
		}
		ctx, id := trace.Ensure(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(trace.HeaderName, id)
		c.Next()
	}
}

// RequestLogger logs one line per request and records the latency histogram.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, strconv.Itoa(status), latency)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("trace_id", trace.FromContext(c.Request.Context())),
		}
		if userID := c.GetString(ctxUserID); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		switch {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

const (
	limiterCapacity = 10000
	limiterIdle     = 10 * time.Minute
)

// UserRateLimiter 按用户限制写请求速率。limiter 放在带过期的 LRU 中，
// 空闲超过 idle 或超出容量的用户会被淘汰，再次出现时拿到满 burst 的新 limiter
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

func NewUserRateLimiter(rps float64, burst int) *UserRateLimiter {
	return newUserRateLimiter(rps, burst, limiterCapacity, limiterIdle)
}

func newUserRateLimiter(rps float64, burst, capacity int, idle time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](capacity, nil, idle),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *UserRateLimiter) limiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters.Get(userID)
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
	}
	// 重新 Add 刷新过期时间，过期按最后一次访问计算
	l.limiters.Add(userID, lim)
	return lim
}

// Middleware rejects writes over the user's budget with 429. Reads pass through.
func (l *UserRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if !l.limiter(c.GetString(ctxUserID)).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
