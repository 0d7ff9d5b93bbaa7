package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"superoutine/internal/api"
	"superoutine/internal/events"
	"superoutine/internal/repository"
	"superoutine/internal/service/dashboard"
	"superoutine/internal/service/export"
	"superoutine/internal/service/gamification"
	"superoutine/internal/service/habit"
	"superoutine/internal/service/mood"
	"superoutine/internal/service/reminder"
	"superoutine/pkg/config"
	"superoutine/pkg/logger"
	"superoutine/pkg/mq"
	"superoutine/pkg/otel"
	"superoutine/pkg/outbox"
	"superoutine/pkg/redis"
)

func main() {
	env := config.GetConfigEnv()
	cfg, err := config.Load(env, config.GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		panic(err)
	}
	log := logger.NewLogger(env)
	defer log.Sync()

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is empty; set JWT_SECRET")
	}

	shutdownOtel, err := otel.Init(cfg.Otel, "superoutine-server", log)
	if err != nil {
		log.Fatal("OpenTelemetry init failed", zap.Error(err))
	}
	defer shutdownOtel()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	store, pool, err := repository.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Store initialization failed", zap.Error(err))
	}
	defer store.Close()

	// Redis（可选，只用于 dashboard 缓存）
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, dashboard cache is in-process only", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// Events: outbox when postgres is used, else direct publish, else log only
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, "superoutine-server")
		if err != nil {
			log.Fatal("RabbitMQ publisher init failed", zap.Error(err))
		}
		defer publisher.Close()
	}

	var (
		emitter    events.Emitter
		dispatcher *outbox.Dispatcher
		replayer   api.Replayer
	)
	switch {
	case pool != nil:
		outboxRepo := outbox.NewRepository(pool)
		emitter = outbox.NewEmitter(outboxRepo, log)
		if publisher != nil {
			dispatcher = outbox.NewDispatcher(outboxRepo, publisher, log).
				WithInterval(cfg.Outbox.Interval).
				WithBatchSize(cfg.Outbox.BatchSize).
				WithMaxRetries(cfg.Outbox.MaxRetries)
			replayer = outbox.NewReplayService(outboxRepo, publisher, log)
		} else {
			log.Warn("MQ disabled: outbox events are stored but not dispatched")
		}
	case publisher != nil:
		emitter = publisher
	default:
		emitter = events.NewLogEmitter(log)
	}

	// Services
	gameSvc := gamification.NewService(store.Gamification, emitter, log)
	dashSvc := dashboard.NewService(store.Habits, store.WeeklyHabits, gameSvc, rdb, cfg.Cache.DashboardTTL, log)
	habitSvc := habit.NewService(store.Habits, store.WeeklyHabits, gameSvc, dashSvc, emitter, log)
	moodSvc := mood.NewService(store.Moods, emitter, log)
	reminderSvc := reminder.NewService(store.Reminders, log)
	exportSvc := export.NewService(store, log)

	router := api.NewRouter(api.Deps{
		Habits:     api.NewHabitHandler(habitSvc, log),
		Profile:    api.NewProfileHandler(gameSvc, moodSvc, reminderSvc, dashSvc, exportSvc, log),
		Admin:      api.NewAdminHandler(replayer, log),
		Store:      store,
		Limiter:    api.NewUserRateLimiter(cfg.Server.WriteRPS, cfg.Server.WriteBurst),
		JWTSecret:  cfg.JWT.Secret,
		Logger:     log,
		WithTracer: cfg.Otel.Enabled,
	})
	srv := router.Server(cfg.Server.Port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", cfg.Server.Port), zap.String("store", store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if dispatcher != nil {
		g.Go(func() error { return dispatcher.Start(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server stopped")
}
