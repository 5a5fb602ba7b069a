package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nailit-studio/nailit-scheduler/cmd/mainconfig"
	"github.com/nailit-studio/nailit-scheduler/internal/api/router"
	"github.com/nailit-studio/nailit-scheduler/internal/appointments"
	"github.com/nailit-studio/nailit-scheduler/internal/calendar"
	"github.com/nailit-studio/nailit-scheduler/internal/clients"
	appconfig "github.com/nailit-studio/nailit-scheduler/internal/config"
	"github.com/nailit-studio/nailit-scheduler/internal/inventory"
	"github.com/nailit-studio/nailit-scheduler/internal/notify"
	"github.com/nailit-studio/nailit-scheduler/internal/observability/metrics"
	"github.com/nailit-studio/nailit-scheduler/internal/settings"
	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting nailit-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Storage. Without DATABASE_URL everything runs in memory, which is
	// enough for local development.
	var (
		clientsRepo  clients.Repository
		apptRepo     appointments.Repository
		settingsBase settings.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		settingsDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open settings db", "error", err)
			os.Exit(1)
		}
		defer func() { _ = settingsDB.Close() }()

		clientsRepo = clients.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		settingsBase = settings.NewPostgresStore(settingsDB)
	} else {
		logger.Info("DATABASE_URL not set, using in-memory storage")
		inMemClients := clients.NewInMemoryRepository()
		clientsRepo = inMemClients
		apptRepo = appointments.NewInMemoryRepository(inMemClients)
		settingsBase = settings.NewInMemoryStore()
	}

	settingsStore := settingsBase
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		settingsStore = settings.NewCachedStore(settingsBase, redis.NewClient(opts), cfg.SettingsTTL)
		logger.Info("settings cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.SettingsTTL)
	}
	if err := settingsStore.SeedDefaults(ctx); err != nil {
		logger.Error("failed to seed default settings", "error", err)
		os.Exit(1)
	}

	sender := buildSender(ctx, cfg, logger)
	schedMetrics := metrics.NewSchedulerMetrics(nil)

	notifier := inventory.NewNotifier(
		inventory.CounterFunc(func(ctx context.Context, family string) (int, error) {
			return apptRepo.CountCompleted(ctx, appointments.Type(family))
		}),
		settingsStore,
		sender,
		schedMetrics,
		logger,
	)

	var calendarSvc calendar.Service
	googleSvc, err := calendar.NewGoogleService(ctx, cfg.GoogleCredentialsFile, cfg.CalendarTimeout, logger)
	if err != nil {
		logger.Error("failed to initialize google calendar", "error", err)
		os.Exit(1)
	}
	if googleSvc != nil {
		calendarSvc = googleSvc
		logger.Info("google calendar mirror enabled")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	apptService := appointments.NewService(apptRepo, clientsRepo, settingsStore, calendarSvc, notifier, schedMetrics, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		ClientsHandler:      clients.NewHandler(clientsRepo, logger),
		AppointmentsHandler: appointments.NewHandler(apptService, loc, cfg.DefaultDurationMinutes, logger),
		SettingsHandler:     settings.NewHandler(settingsStore, logger),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildSender picks the notification channel from NOTIFY_PROVIDER.
func buildSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.Sender {
	switch cfg.NotifyProvider {
	case "push":
		sender, err := notify.NewPushSender(notify.PushConfig{
			BaseURL: cfg.PushBaseURL,
			Topic:   cfg.PushTopic,
			Token:   cfg.PushToken,
			Timeout: cfg.PushTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to configure push sender", "error", err)
			os.Exit(1)
		}
		return sender
	case "email":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyEmailFrom,
			FromName:  cfg.NotifyEmailFromName,
			ToEmail:   cfg.NotifyEmailTo,
		}, logger)
		if sender == nil {
			logger.Error("SES sender misconfigured")
			os.Exit(1)
		}
		return sender
	default:
		logger.Info("using stub notification sender")
		return notify.NewStubSender(logger)
	}
}
