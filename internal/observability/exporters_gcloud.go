//go:build gcloud

package observability

import (
	"context"
	"errors"
	"os"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func gcloudProjectID() string {
	if v := os.Getenv("GCLOUD_PROJECT_ID"); v != "" {
		return v
	}
	return os.Getenv("GOOGLE_CLOUD_PROJECT")
}

func newTraceExporter(_ context.Context) (sdktrace.SpanExporter, error) {
	projectID := gcloudProjectID()
	if projectID == "" {
		return nil, errors.New("GCLOUD_PROJECT_ID is not set")
	}

	return texporter.New(texporter.WithProjectID(projectID))
}

func newMetricReader(_ context.Context) (sdkmetric.Reader, error) {
	projectID := gcloudProjectID()
	if projectID == "" {
		return nil, errors.New("GCLOUD_PROJECT_ID is not set")
	}

	exporter, err := mexporter.New(mexporter.WithProjectID(projectID))
	if err != nil {
		return nil, err
	}

	return sdkmetric.NewPeriodicReader(exporter), nil
}
