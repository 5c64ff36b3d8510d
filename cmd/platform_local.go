//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pawkeeper/notification-scheduling/internal/config"
	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/infra/dispatch"
	"github.com/pawkeeper/notification-scheduling/internal/infra/trigger"
	"github.com/pawkeeper/notification-scheduling/internal/observability"
	"github.com/pawkeeper/notification-scheduling/internal/observability/metrics"
)

// initPlatform wires the Redis-backed trigger store and starts the poll
// loop that fires due notifications in-process.
func initPlatform(
	ctx context.Context,
	cfg *config.Config,
	redisClient *redis.Client,
	prefs domain.PreferenceSource,
	recorder domain.DeliveryRecorder,
	schedulingMetrics *metrics.SchedulingMetrics,
) (*platform, error) {
	store := trigger.NewRedisStore(redisClient)

	dispatcher := dispatch.NewDispatcher(
		store,
		store,
		prefs,
		recorder,
		schedulingMetrics,
		cfg.Scheduling.DispatchPollInterval,
	)

	if cfg.Scheduling.DispatchDisabled {
		slog.Warn("dispatch loop disabled, due triggers will accumulate until re-enabled")
	} else {
		go dispatcher.Run(ctx)
	}

	slog.Info("trigger platform initialized",
		slog.String("type", "redis"),
		slog.String("addr", cfg.Redis.Addr),
	)

	return &platform{
		triggers:   store,
		dispatcher: dispatcher,
	}, nil
}

func registerPlatformRoutes(_ *gin.Engine, _ *platform) {}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "notification-scheduling"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	return observability.Init(ctx, observability.Config{
		ServiceName: serviceName,
		Version:     Version,
		Environment: env,
		LogLevel:    cfg.LogLevel,
	})
}
