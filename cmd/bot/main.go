package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AnandhuAsokan/salon-frontend/internal/api"
	"github.com/AnandhuAsokan/salon-frontend/internal/booking"
	"github.com/AnandhuAsokan/salon-frontend/internal/bot"
	"github.com/AnandhuAsokan/salon-frontend/internal/config"
	"github.com/AnandhuAsokan/salon-frontend/internal/events"
	"github.com/AnandhuAsokan/salon-frontend/internal/gcal"
	"github.com/AnandhuAsokan/salon-frontend/internal/metrics"
	"github.com/AnandhuAsokan/salon-frontend/internal/session"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// .env values feed the ${ENV_VAR} placeholders in the YAML config.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("failed to load .env")
	}

	cfg, err := config.Load(os.Getenv("SALON_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Fatal().Msg("set telegram.bot_token in config")
	}
	if cfg.API.BaseURL == "" {
		logger.Fatal().Msg("set api.base_url in config")
	}

	metrics.Register()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.APIKey, logger)
	client.SetRateLimit(cfg.API.RatePerSecond, cfg.API.RateBurst)

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.API.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, time.Duration(cfg.API.CacheTTLSeconds)*time.Second)
	}

	store, err := session.OpenStore(cfg.Session.Path, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open session store error")
	}
	defer store.Close()

	sess := session.New(store, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	bus.Subscribe(events.SessionTeardown, func(events.Event) {
		logger.Warn().Msg("session torn down after unauthorized response")
	})

	// A 401 from any endpoint tears the session down, unconditionally.
	client.OnUnauthorized(func() {
		sess.Teardown(context.Background())
		bus.Publish(events.Event{Type: events.SessionTeardown})
	})

	if err := sess.Restore(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to restore session")
	}

	workflows := booking.NewWorkflowStore(cfg.WorkflowTimeout())

	opts := bot.Options{
		MaxAdvanceDays:  cfg.BookingMaxAdvance(),
		ConfirmAckDelay: cfg.ConfirmAckDelay(),
		Admins:          cfg.Admins,
	}
	b, err := bot.New(cfg.Telegram.BotToken, client, sess, workflows, opts, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create bot error")
	}
	b.SetEventBus(bus)

	if cfg.Google.CredentialsFile != "" && cfg.Google.CalendarID != "" {
		publisher, err := gcal.NewPublisher(ctx, cfg.Google.CredentialsFile, cfg.Google.CalendarID, logger)
		if err != nil {
			logger.Error().Err(err).Msg("calendar publisher disabled")
		} else {
			bus.Subscribe(events.BookingConfirmed, func(e events.Event) {
				if err := publisher.PublishBooking(ctx, e.Booking); err != nil {
					logger.Error().Err(err).Msg("calendar publish failed")
				}
			})
		}
	}

	backup := session.NewBackupService(cfg.Session.Path, session.BackupConfig{
		Enabled:       cfg.Session.Backup.Enabled,
		StoragePath:   cfg.Session.Backup.StoragePath,
		RetentionDays: cfg.Session.Backup.RetentionDays,
	}, logger)
	go backup.Start(ctx)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, store, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	b.StartReminders(ctx)

	logger.Info().Msg("salon bot started")
	b.Start(ctx)
}

func startHealthServer(ctx context.Context, port int, store *session.Store, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := store.PingContext(ctxPing); err != nil {
			http.Error(w, "session store not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
