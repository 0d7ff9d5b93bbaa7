package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"superoutine/pkg/otel"
	"superoutine/pkg/rbac"
)

// Pinger 就绪检查依赖；*repository.Store 实现
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps 组装路由所需的 handler 与配置
type Deps struct {
	Habits     *HabitHandler
	Profile    *ProfileHandler
	Admin      *AdminHandler
	Store      Pinger
	Limiter    *UserRateLimiter
	JWTSecret  string
	Logger     *zap.Logger
	WithTracer bool
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(d Deps) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), RequestLogger(d.Logger))
	if d.WithTracer {
		r.Use(otel.GinMiddleware())
	}

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.Use(AuthMiddleware(d.JWTSecret))
	if d.Limiter != nil {
		v1.Use(d.Limiter.Middleware())
	}

	read := v1.Group("", RequirePermission(rbac.PermissionReadHabits))
	{
		read.GET("/habits", d.Habits.ListHabits)
		read.GET("/weekly-habits", d.Habits.ListWeeklyHabits)
		read.GET("/dashboard", d.Profile.GetDashboard)
	}

	write := v1.Group("", RequirePermission(rbac.PermissionWriteHabits))
	{
		write.POST("/habits", d.Habits.CreateHabit)
		write.PUT("/habits/:id", d.Habits.UpdateHabit)
		write.DELETE("/habits/:id", d.Habits.DeleteHabit)
		write.POST("/habits/:id/toggle", d.Habits.ToggleDay)

		write.POST("/weekly-habits", d.Habits.CreateWeeklyHabit)
		write.PUT("/weekly-habits/:id", d.Habits.UpdateWeeklyHabit)
		write.DELETE("/weekly-habits/:id", d.Habits.DeleteWeeklyHabit)
		write.POST("/weekly-habits/:id/toggle", d.Habits.ToggleWeek)
	}

	profileRead := v1.Group("", RequirePermission(rbac.PermissionReadProfile))
	{
		profileRead.GET("/gamification", d.Profile.GetGamification)
		profileRead.GET("/moods", d.Profile.GetMoods)
		profileRead.GET("/reminders", d.Profile.GetReminder)
	}

	profileWrite := v1.Group("", RequirePermission(rbac.PermissionWriteProfile))
	{
		profileWrite.POST("/gamification/skip", d.Profile.UseSkip)
		profileWrite.POST("/moods", d.Profile.LogMood)
		profileWrite.PUT("/reminders", d.Profile.SaveReminder)
	}

	v1.GET("/export", RequirePermission(rbac.PermissionExportData), d.Profile.Export)

	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(d.JWTSecret), RequirePermission(rbac.PermissionReplayOutbox))
	{
		admin.POST("/outbox/replay", d.Admin.ReplayOutboxEvent)
		admin.POST("/outbox/replay-failed", d.Admin.ReplayFailedEvents)
	}

	return &Router{Engine: r}
}

// Server 返回带超时设置的 http.Server，由调用方负责启动与关闭
func (r *Router) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
