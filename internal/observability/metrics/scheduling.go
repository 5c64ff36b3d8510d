package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulingMeterName = "scheduling.service"
)

type SchedulingMetrics struct {
	scheduleRequests metric.Int64Counter
	cancellations    metric.Int64Counter
	scheduleLead     metric.Float64Histogram
	deliveries       metric.Int64Counter
	dispatchLag      metric.Float64Histogram
}

func NewSchedulingMetrics() (*SchedulingMetrics, error) {
	meter := otel.Meter(schedulingMeterName)

	scheduleRequests, err := meter.Int64Counter(
		"notification_schedule_requests_total",
		metric.WithDescription("Total number of schedule requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	cancellations, err := meter.Int64Counter(
		"notification_cancellations_total",
		metric.WithDescription("Total number of cancelled pending notifications"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	scheduleLead, err := meter.Float64Histogram(
		"notification_schedule_lead_seconds",
		metric.WithDescription("Distance between scheduling and the notify instant"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			60, 300, 900, 1800, 3600, 10800, 28800, 86400, 259200, 604800,
		),
	)
	if err != nil {
		return nil, err
	}

	deliveries, err := meter.Int64Counter(
		"notification_deliveries_total",
		metric.WithDescription("Total number of fired notifications by presentation outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLag, err := meter.Float64Histogram(
		"notification_dispatch_lag_seconds",
		metric.WithDescription("Delay between the notify instant and actual dispatch"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulingMetrics{
		scheduleRequests: scheduleRequests,
		cancellations:    cancellations,
		scheduleLead:     scheduleLead,
		deliveries:       deliveries,
		dispatchLag:      dispatchLag,
	}, nil
}

func (m *SchedulingMetrics) RecordScheduled(ctx context.Context, reminderType, outcome string) {
	m.scheduleRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reminder_type", reminderType),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulingMetrics) RecordCancelled(ctx context.Context, count int) {
	m.cancellations.Add(ctx, int64(count))
}

func (m *SchedulingMetrics) RecordScheduleLead(ctx context.Context, lead time.Duration) {
	m.scheduleLead.Record(ctx, lead.Seconds())
}

func (m *SchedulingMetrics) RecordDelivered(ctx context.Context, reminderType, outcome string) {
	m.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reminder_type", reminderType),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulingMetrics) RecordDispatchLag(ctx context.Context, lag time.Duration) {
	m.dispatchLag.Record(ctx, lag.Seconds())
}
