package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/pawkeeper/notification-scheduling/internal/observability/logging"
)

type Config struct {
	ServiceName string
	Version     string
	Environment string
	LogLevel    slog.Level
}

// Resources holds everything Init set up, so main can shut it down in one
// place.
type Resources struct {
	logger         *slog.Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

func (r *Resources) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if r.tracerProvider != nil {
		if err := r.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if r.meterProvider != nil {
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Init configures logging and, when exporters are available for the build
// target, tracing and metrics. It always returns a usable logger even when
// telemetry setup fails.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	logger := slog.New(logging.NewHandler(os.Stdout, cfg.LogLevel))
	slog.SetDefault(logger)

	res := &Resources{logger: logger}

	otelResource, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return res, fmt.Errorf("failed to create otel resource: %w", err)
	}

	traceExporter, err := newTraceExporter(ctx)
	if err != nil {
		slog.WarnContext(ctx, "tracing disabled",
			slog.String("error", err.Error()),
		)
	} else if traceExporter != nil {
		res.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(otelResource),
		)
		otel.SetTracerProvider(res.tracerProvider)
	}

	metricReader, err := newMetricReader(ctx)
	if err != nil {
		slog.WarnContext(ctx, "metrics disabled",
			slog.String("error", err.Error()),
		)
	} else if metricReader != nil {
		res.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(metricReader),
			sdkmetric.WithResource(otelResource),
		)
		otel.SetMeterProvider(res.meterProvider)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return res, nil
}
