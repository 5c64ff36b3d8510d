//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs is a no-op outside Cloud Run; trace correlation comes from
// the plain trace_id/span_id attributes.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
