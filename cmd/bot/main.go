package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/admin"
	"github.com/Proton-105/juniorsaver-bot/internal/bot"
	"github.com/Proton-105/juniorsaver-bot/internal/health"
	"github.com/Proton-105/juniorsaver-bot/internal/idempotency"
	"github.com/Proton-105/juniorsaver-bot/internal/lifecycle"
	"github.com/Proton-105/juniorsaver-bot/internal/middleware"
	"github.com/Proton-105/juniorsaver-bot/internal/ratelimit"
	"github.com/Proton-105/juniorsaver-bot/internal/state"
	"github.com/Proton-105/juniorsaver-bot/pkg/config"
	"github.com/Proton-105/juniorsaver-bot/pkg/graceful"
	"github.com/Proton-105/juniorsaver-bot/pkg/logger"
	"github.com/Proton-105/juniorsaver-bot/pkg/metrics"
	"github.com/Proton-105/juniorsaver-bot/pkg/redis"
)

const (
	shutdownTimeout      = 15 * time.Second
	rateLimitCleanupTick = time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "junior saver bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	appLogger := logger.New(cfg.Log, cfg.Sentry.Enabled)
	defer func() { _ = appLogger.Close() }()
	log := appLogger.Logger
	slog.SetDefault(log)

	config.Watch(v, log, func(updated *config.Config) {
		appLogger.SetLevel(updated.Log.Level)
		log.Info("log level applied", slog.String("level", appLogger.Level().String()))
	})

	log.Info("starting junior saver bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("state_backend", cfg.State.Backend),
	)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancelCause(sigCtx)
	defer cancel(nil)

	var wg sync.WaitGroup
	goBackground := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}

	shutdown := lifecycle.NewShutdown(log)

	var redisClient *goredis.Client
	if cfg.State.Backend == "redis" {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisClient = client.Client
		shutdown.Register("redis", func(context.Context) error { return client.Close() })
	}

	var storage state.Storage = state.NewMemoryStorage()
	if redisClient != nil {
		storage = state.NewRedisStorage(redisClient, log, cfg.State.TTL)
	}
	fsm := state.NewStateMachine(storage, log, redisClient)

	admins := admin.NewAllowList(cfg.Admins)
	log.Info("admin allow-list loaded", slog.Int("admins", admins.Len()))

	var updateMiddlewares []telebot.MiddlewareFunc

	if cfg.Bot.DedupTTL > 0 {
		var dedupStore idempotency.Store
		if redisClient != nil {
			dedupStore = idempotency.NewRedisStore(redisClient, log)
		} else {
			memory := idempotency.NewMemoryStore()
			dedupStore = memory
			goBackground(func(ctx context.Context) { memory.Run(ctx, cfg.Bot.DedupTTL) })
		}
		updateMiddlewares = append(updateMiddlewares, middleware.Idempotency(dedupStore, cfg.Bot.DedupTTL, log))
	}

	if cfg.RateLimit.Enabled {
		rules := ratelimit.NewRules(cfg.RateLimit, admins.IDs()...)
		for _, action := range []ratelimit.Action{ratelimit.ActionCommand, ratelimit.ActionCallback, ratelimit.ActionText, ratelimit.ActionOther} {
			if _, _, err := rules.For(action); err != nil {
				return fmt.Errorf("rate limit rule: %w", err)
			}
		}

		var limiter ratelimit.Limiter
		if redisClient != nil {
			limiter = ratelimit.NewRedisLimiter(redisClient, log)
		} else {
			memory := ratelimit.NewMemoryLimiter(log)
			limiter = memory
			window := rules.MaxWindow()
			goBackground(func(ctx context.Context) { memory.Run(ctx, rateLimitCleanupTick, window) })
		}
		updateMiddlewares = append(updateMiddlewares, middleware.NewRateLimitMiddleware(limiter, rules, log).Handle)
	}

	stateCleaner := state.NewCleaner(storage, log, cfg.State.TTL, cfg.State.CleanupInterval)
	goBackground(stateCleaner.Run)

	tgBot, err := bot.New(*cfg, log, fsm, admins, updateMiddlewares...)
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		checker := health.NewChecker(log, 0)
		checker.AddCheck("telegram", health.NewTelegramChecker(tgBot.Telebot()))
		if redisClient != nil {
			checker.AddCheck("redis", health.NewRedisChecker(redisClient))
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/healthz", checker.Handler())

		srv := graceful.NewServer(log, &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           logger.Middleware(middleware.New(log)(mux)),
			ReadHeaderTimeout: 5 * time.Second,
		}, cfg.Metrics.ShutdownTimeout)
		goBackground(func(ctx context.Context) {
			if err := srv.ListenAndServe(ctx); err != nil {
				cancel(fmt.Errorf("metrics server: %w", err))
			}
		})

		collector := metrics.NewStateCollector(fsm)
		goBackground(collector.Run)
	}

	shutdown.Register("telegram", func(context.Context) error {
		tgBot.Stop()
		return nil
	})

	go tgBot.Start()

	<-ctx.Done()

	var runErr error
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		log.Error("background component failed", slog.Any("error", cause))
		runErr = cause
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	shutdownErr := shutdown.Execute(shutdownCtx)
	wg.Wait()

	log.Info("junior saver bot stopped")
	return errors.Join(runErr, shutdownErr)
}
