//go:build !gcloud

package deliveryrecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.DeliveryRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "delivery recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, delivery recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "delivery recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordDelivery(ctx context.Context, record *domain.DeliveryRecord) error {
	if record == nil {
		return nil
	}

	point := influxdb2.NewPoint(
		"notification_delivery",
		map[string]string{
			"reminder_type": record.ReminderType,
			"outcome":       record.Outcome,
		},
		map[string]any{
			"notification_id": record.NotificationID,
			"reminder_id":     record.ReminderID,
			"fire_unix":       record.FireTime.Unix(),
			"lag_ms":          record.DecidedAt.Sub(record.FireTime).Milliseconds(),
		},
		record.DecidedAt,
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write delivery record to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("notification_id", record.NotificationID),
			slog.String("outcome", record.Outcome),
		)
	}

	return nil
}

func (r *influxDBRecorder) Close() error {
	r.client.Close()
	return nil
}
