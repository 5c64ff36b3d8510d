package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/pawkeeper/notification-scheduling/internal/config"
	"github.com/pawkeeper/notification-scheduling/internal/handler"
	"github.com/pawkeeper/notification-scheduling/internal/health"
	"github.com/pawkeeper/notification-scheduling/internal/infra/deliveryrecorder"
	"github.com/pawkeeper/notification-scheduling/internal/infra/permission"
	"github.com/pawkeeper/notification-scheduling/internal/infra/preference"
	"github.com/pawkeeper/notification-scheduling/internal/observability/metrics"
	"github.com/pawkeeper/notification-scheduling/internal/observability/middleware"
	"github.com/pawkeeper/notification-scheduling/internal/service/listener"
	"github.com/pawkeeper/notification-scheduling/internal/service/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Missing .env is fine outside local development
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	schedulingMetrics, err := metrics.NewSchedulingMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduling metrics", slog.String("error", err.Error()))
		return 1
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	// Delivery recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := deliveryrecorder.LoadConfig()
	deliveryRecorder, err := deliveryrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize delivery recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := deliveryRecorder.Close(); err != nil {
			slog.Warn("failed to close delivery recorder", slog.String("error", err.Error()))
		}
	}()

	preferenceStore := preference.NewStore(preference.NewRedisRepository(redisClient))
	if err := preferenceStore.Load(ctx); err != nil {
		slog.Error("failed to load preferences", slog.String("error", err.Error()))
		return 1
	}

	permissionGate := permission.NewRedisGate(redisClient)

	platform, err := initPlatform(ctx, cfg, redisClient, preferenceStore, deliveryRecorder, schedulingMetrics)
	if err != nil {
		slog.Error("failed to initialize trigger platform", slog.String("error", err.Error()))
		return 1
	}
	if platform.cleanup != nil {
		defer func() {
			if err := platform.cleanup(); err != nil {
				slog.Warn("trigger platform cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	scheduleService := schedule.NewService(platform.triggers, preferenceStore, permissionGate, schedulingMetrics)

	listeners := listener.New(platform.dispatcher)
	listeners.Start(func(ev listener.Event) {
		slog.Info("tap routed",
			slog.String("reminder_id", ev.Payload.ReminderID),
			slog.String("pet_id", ev.Payload.PetID),
		)
	})
	defer listeners.Stop()

	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceStore)
	permissionHandler := handler.NewPermissionHandler(permissionGate)
	eventHandler := handler.NewEventHandler(platform.dispatcher)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready"},
		TracerName: "github.com/pawkeeper/notification-scheduling/internal/observability/middleware",
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, platform.triggers, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/notifications/schedule", scheduleHandler.HandleSchedule)
		v1.POST("/notifications/schedule-recurring", scheduleHandler.HandleScheduleRecurring)
		v1.GET("/notifications", scheduleHandler.HandleListPending)
		v1.GET("/notifications/stats", scheduleHandler.HandleStats)
		v1.DELETE("/notifications", scheduleHandler.HandleCancelAll)
		v1.DELETE("/notifications/:id", scheduleHandler.HandleCancel)
		v1.DELETE("/reminders/:reminderId/notifications", scheduleHandler.HandleCancelForReminder)

		v1.GET("/badge", scheduleHandler.HandleGetBadge)
		v1.PUT("/badge", scheduleHandler.HandleSetBadge)
		v1.POST("/badge/clear", scheduleHandler.HandleClearBadge)

		v1.GET("/preferences", preferenceHandler.HandleGet)
		v1.PUT("/preferences", preferenceHandler.HandleUpdate)

		v1.GET("/permission", permissionHandler.HandleGet)
		v1.PUT("/permission", permissionHandler.HandleReport)

		v1.POST("/events/tap", eventHandler.HandleTap)
	}

	registerPlatformRoutes(r, platform)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Duration("dispatch_poll_interval", cfg.Scheduling.DispatchPollInterval),
			slog.Bool("dispatch_disabled", cfg.Scheduling.DispatchDisabled),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
