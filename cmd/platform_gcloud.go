//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pawkeeper/notification-scheduling/internal/config"
	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/infra/dispatch"
	"github.com/pawkeeper/notification-scheduling/internal/infra/trigger"
	"github.com/pawkeeper/notification-scheduling/internal/observability"
	"github.com/pawkeeper/notification-scheduling/internal/observability/metrics"
)

// initPlatform wires the Cloud Tasks trigger store. Fires arrive as HTTP
// callbacks on /internal/dispatch, so the dispatcher runs without a poll
// loop.
func initPlatform(
	ctx context.Context,
	cfg *config.Config,
	redisClient *redis.Client,
	prefs domain.PreferenceSource,
	recorder domain.DeliveryRecorder,
	schedulingMetrics *metrics.SchedulingMetrics,
) (*platform, error) {
	if err := cfg.Trigger.Validate(); err != nil {
		return nil, err
	}

	store, err := trigger.NewCloudTasksStore(ctx, trigger.CloudTasksConfig{
		ProjectID:  cfg.Trigger.GCloudProjectID,
		LocationID: cfg.Trigger.GCloudLocationID,
		QueueID:    cfg.Trigger.GCloudQueueID,
		TargetURL:  cfg.Trigger.GCloudTargetURL,
		MaxRetries: cfg.Trigger.MaxRetries,
	}, redisClient)
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.NewDispatcher(
		nil,
		store,
		prefs,
		recorder,
		schedulingMetrics,
		cfg.Scheduling.DispatchPollInterval,
	)

	slog.Info("trigger platform initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Trigger.GCloudProjectID),
		slog.String("location", cfg.Trigger.GCloudLocationID),
		slog.String("queue", cfg.Trigger.GCloudQueueID),
	)

	return &platform{
		triggers:   store,
		dispatcher: dispatcher,
		cleanup:    store.Close,
		claimFired: store.ClaimFired,
	}, nil
}

type dispatchCallbackRequest struct {
	TriggerID string         `json:"trigger_id" binding:"required"`
	Payload   domain.Payload `json:"payload" binding:"required"`
	FireAt    time.Time      `json:"fire_at"`
}

// registerPlatformRoutes exposes the Cloud Tasks callback endpoint. The
// queue retries non-2xx responses, so transient failures return 500.
func registerPlatformRoutes(r *gin.Engine, p *platform) {
	r.POST("/internal/dispatch", func(c *gin.Context) {
		var req dispatchCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.WarnContext(c.Request.Context(), "invalid dispatch callback",
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}

		ctx := c.Request.Context()

		if p.claimFired != nil {
			if err := p.claimFired(ctx, req.TriggerID); err != nil {
				slog.ErrorContext(ctx, "failed to claim fired trigger",
					slog.String("trigger_id", req.TriggerID),
					slog.String("error", err.Error()),
				)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "claim_failed"})
				return
			}
		}

		fireAt := req.FireAt
		if fireAt.IsZero() {
			fireAt = time.Now()
		}

		p.dispatcher.DispatchNow(ctx, &domain.PendingNotification{
			ID:       req.TriggerID,
			Payload:  req.Payload,
			FireTime: fireAt,
		})

		c.JSON(http.StatusOK, gin.H{"dispatched": true})
	})
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "notification-scheduling"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}

	return observability.Init(ctx, observability.Config{
		ServiceName: serviceName,
		Version:     Version,
		Environment: env,
		LogLevel:    cfg.LogLevel,
	})
}
