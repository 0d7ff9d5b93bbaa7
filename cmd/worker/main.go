package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"superoutine/internal/events"
	"superoutine/internal/mqhandler"
	"superoutine/internal/notify"
	"superoutine/internal/repository"
	"superoutine/internal/service/reminder"
	"superoutine/pkg/config"
	"superoutine/pkg/logger"
	"superoutine/pkg/mq"
	"superoutine/pkg/otel"
	"superoutine/pkg/redis"
	"superoutine/pkg/util"
)

func main() {
	env := config.GetConfigEnv()
	cfg, err := config.Load(env, config.GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		panic(err)
	}
	log := logger.NewLogger(env)
	defer log.Sync()

	log.Info("Starting worker service...")

	shutdownOtel, err := otel.Init(cfg.Otel, "superoutine-worker", log)
	if err != nil {
		log.Fatal("OpenTelemetry init failed", zap.Error(err))
	}
	defer shutdownOtel()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, _, err := repository.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Store initialization failed", zap.Error(err))
	}
	defer store.Close()

	// Redis: 去重与重试计数；不可用时不去重，重试交给 MQ
	var (
		deduper mqhandler.Deduper
		retries mqhandler.RetryCounter
	)
	if cfg.Redis.Enabled {
		rdb, err := redis.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, running without dedupe", zap.Error(err))
		} else {
			defer rdb.Close()
			deduper = util.NewDeduper(rdb, cfg.Worker.DedupTTL, log)
			retries = util.NewRetryCounter(rdb, cfg.Worker.DedupTTL)
		}
	}

	var sender notify.Sender
	if cfg.Notify.URL != "" {
		sender = notify.NewRelay(cfg.Notify.URL, cfg.Notify.Timeout, log)
	} else {
		log.Warn("notify.url is empty, notifications are only logged")
		sender = notify.NewLogSender(log)
	}
	handler := mqhandler.NewNotificationHandler(sender, log)

	g, gctx := errgroup.WithContext(ctx)
	var emitter events.Emitter

	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, "superoutine-worker")
		if err != nil {
			log.Fatal("RabbitMQ publisher init failed", zap.Error(err))
		}
		defer publisher.Close()
		emitter = publisher

		guard := mqhandler.NewGuard(deduper, retries, publisher, cfg.Worker.MaxRetries, log)
		for _, binding := range handler.Register(guard) {
			log.Info("Init consumer", zap.String("queue", binding.Queue), zap.String("routing_key", binding.RoutingKey))
			consumer, err := mq.NewConsumer(cfg.MQ.URL, binding.Queue, binding.RoutingKey, log)
			if err != nil {
				log.Fatal("Consumer init failed", zap.String("queue", binding.Queue), zap.Error(err))
			}
			defer consumer.Close()
			consumer.SetHandler(binding.Handler)
			g.Go(func() error { return consumer.StartConsuming(gctx) })
		}
	} else {
		// 没有 broker 时在进程内直接投递
		log.Warn("MQ disabled, delivering worker events in-process")
		guard := mqhandler.NewGuard(deduper, retries, nil, cfg.Worker.MaxRetries, log)
		emitter = mqhandler.NewLocalBus(handler.Register(guard), log)
	}

	scheduler := reminder.NewScheduler(store.Reminders, store.Habits, emitter, cfg.Worker.ReminderTick, log)
	g.Go(func() error { return scheduler.Start(gctx) })

	log.Info("Worker running")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Worker stopped with error", zap.Error(err))
		return
	}
	log.Info("Worker stopped")
}
