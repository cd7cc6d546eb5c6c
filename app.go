package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"qrpass_bot/config"
	"qrpass_bot/dashboard"
	"qrpass_bot/dialog"
	"qrpass_bot/encoder"
	"qrpass_bot/handlers"
	"qrpass_bot/jobs"
	"qrpass_bot/metrics"
	"qrpass_bot/middleware"
	"qrpass_bot/session"
	"qrpass_bot/storage"
	"qrpass_bot/telegram"
)

const (
	shutdownTimeout = 5 * time.Second
	lockTTL         = 30 * time.Second
	statePrefix     = "qrbot:"
)

// dependencies собранные компоненты бота.
type dependencies struct {
	logger     *slog.Logger
	records    *storage.SQLStore
	rdb        *redis.Client
	bot        *tgbotapi.BotAPI
	dispatcher *dialog.Dispatcher
	dashboard  *dashboard.Dashboard
	registry   *prometheus.Registry
}

func (d *dependencies) Close() {
	if d.rdb != nil {
		if err := d.rdb.Close(); err != nil {
			d.logger.Warn("failed to close redis", "err", err)
		}
	}
	if err := d.records.Close(); err != nil {
		d.logger.Warn("failed to close record store", "err", err)
	}
}

// openRecords выбирает Postgres, если задан DSN, иначе локальный SQLite.
func openRecords(ctx context.Context, sqlitePath, dsn string) (*storage.SQLStore, error) {
	if dsn != "" {
		return storage.ConnectPostgres(ctx, dsn)
	}
	return storage.OpenSQLite(sqlitePath)
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	records, err := openRecords(ctx, cfg.SQLitePath, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	if err := records.Init(ctx); err != nil {
		records.Close()
		return nil, fmt.Errorf("init record store: %w", err)
	}

	deps := &dependencies{logger: logger, records: records}

	var (
		states   session.Store[dialog.State]
		sessOpts = []session.Option{session.WithLogger(logger)}
		dispOpts []dialog.Option
	)
	if cfg.RedisAddr != "" {
		rdb, err := storage.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.rdb = rdb
		states = session.NewRedisStore[dialog.State](rdb, session.WithPrefix(statePrefix+"session:"), session.WithTTL(cfg.StateTTL))
		sessOpts = append(sessOpts, session.WithLocker(session.NewLocker(rdb, statePrefix), lockTTL))
		dispOpts = append(dispOpts, dialog.WithEventPublisher(jobs.NewPublisher(rdb, jobs.DefaultQueue)))
		logger.Info("using redis for conversation state")
	} else {
		states = session.NewMemoryStore[dialog.State]()
		logger.Info("using in-memory conversation state")
	}

	deps.registry = prometheus.NewRegistry()
	deps.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	deps.bot = bot
	logger.Info("authorized on telegram", "bot", bot.Self.UserName)

	sessions := session.NewManager(sessOpts...)
	dispOpts = append(dispOpts,
		dialog.WithLogger(logger),
		dialog.WithMetrics(metrics.New(deps.registry)),
		dialog.WithMaxInputSize(cfg.MaxInputSize),
	)
	deps.dispatcher = dialog.NewManager(
		dialog.NewMachine(records),
		states,
		sessions,
		telegram.NewClient(bot, encoder.NewQRCode()),
		dispOpts...,
	)
	deps.dashboard = dashboard.New(records, states, sessions.Active, logger)
	return deps, nil
}

// setupRoutes собирает HTTP-маршруты. Webhook подключается только при непустом secret.
func setupRoutes(manager dialog.DialogManager, dash *dashboard.Dashboard, registry *prometheus.Registry, webhookSecret string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	if webhookSecret != "" {
		r.With(middleware.WebhookSecret(webhookSecret)).
			Post("/telegram", handlers.NewTelegramHandler(manager, logger).ServeHTTP)
	}
	r.Get("/status", dash.Handler)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("qrbot is running"))
	})
	return r
}

// serve запускает HTTP-сервер и, в режиме polling, long polling Telegram.
// Возвращается после отмены ctx и корректной остановки сервера.
func serve(ctx context.Context, cfg *config.Config, deps *dependencies) error {
	secret := ""
	if cfg.Mode == config.ModeWebhook {
		secret = cfg.WebhookSecret
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRoutes(deps.dispatcher, deps.dashboard, deps.registry, secret, deps.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Mode == config.ModePolling {
		g.Go(func() error {
			return telegram.Listen(gctx, deps.bot, deps.dispatcher, deps.logger)
		})
	}
	return g.Wait()
}
