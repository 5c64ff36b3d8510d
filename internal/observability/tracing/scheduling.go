package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schedulingTracerName = "github.com/pawkeeper/notification-scheduling/internal/service/schedule"

func SchedulingTracer() trace.Tracer {
	return otel.Tracer(schedulingTracerName)
}

func StartScheduleSpan(ctx context.Context, reminderID, reminderType string, targetTime time.Time) (context.Context, trace.Span) {
	return SchedulingTracer().Start(ctx, "scheduling.schedule",
		trace.WithAttributes(
			attribute.String("reminder_id", reminderID),
			attribute.String("reminder_type", reminderType),
			attribute.String("target_time", targetTime.Format(time.RFC3339)),
		),
	)
}

func StartDispatchSpan(ctx context.Context, notificationID, reminderID string) (context.Context, trace.Span) {
	return SchedulingTracer().Start(ctx, "scheduling.dispatch",
		trace.WithAttributes(
			attribute.String("notification_id", notificationID),
			attribute.String("reminder_id", reminderID),
		),
	)
}

func StartTriggerStoreSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return SchedulingTracer().Start(ctx, "scheduling.trigger_store."+operation,
		trace.WithAttributes(
			attribute.String("db.operation", operation),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordScheduleResult(span trace.Span, scheduled bool, skipReason string, notifyTime time.Time, err error) {
	span.SetAttributes(
		attribute.Bool("schedule.scheduled", scheduled),
	)
	if skipReason != "" {
		span.SetAttributes(attribute.String("schedule.skip_reason", skipReason))
	}
	if !notifyTime.IsZero() {
		span.SetAttributes(attribute.String("schedule.notify_time", notifyTime.Format(time.RFC3339)))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordDispatchResult(span trace.Span, outcome string, lag time.Duration, err error) {
	span.SetAttributes(
		attribute.String("dispatch.outcome", outcome),
		attribute.Int64("dispatch.lag_ms", lag.Milliseconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
