//go:build gcloud

package logging

import (
	"context"
	"log/slog"
	"os"
)

// gcpTraceAttrs adds the Cloud Logging trace field so log entries nest
// under their trace in the console.
func gcpTraceAttrs(_ context.Context, traceID string) []slog.Attr {
	projectID := os.Getenv("GCLOUD_PROJECT_ID")
	if projectID == "" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if projectID == "" {
		return nil
	}

	return []slog.Attr{
		slog.String("logging.googleapis.com/trace",
			"projects/"+projectID+"/traces/"+traceID),
	}
}
