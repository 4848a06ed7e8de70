package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Log attribute keys shared by every record.
const (
	AttrTraceID = "trace_id"
	AttrSpanID  = "span_id"
	AttrService = "service"
	AttrEnv     = "env"
	AttrMode    = "mode"
	AttrRunID   = "run_id"
)

// TracingHandler is an [slog.Handler] that stamps each record with the
// trace_id and span_id of the span found in the record's context.
// The service, mode and env attributes are attached once at construction,
// before any group is opened, so they always stay at the top level.
type TracingHandler struct {
	next slog.Handler
}

// NewTracingHandler wraps next with trace context injection and service metadata.
func NewTracingHandler(next slog.Handler, service, env string, mode AppMode) *TracingHandler {
	base := make([]slog.Attr, 0, 3)
	base = append(base, slog.String(AttrService, service), slog.String(AttrMode, string(mode)))

	if env != "" {
		base = append(base, slog.String(AttrEnv, env))
	}

	return &TracingHandler{next: next.WithAttrs(base)}
}

// Enabled reports whether the wrapped handler accepts level.
func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle adds the span identifiers, if any, and forwards the record.
func (h *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(AttrTraceID, sc.TraceID().String()),
			slog.String(AttrSpanID, sc.SpanID().String()),
		)
	}

	if err := h.next.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{next: h.next.WithGroup(name)}
}

// NewRunID returns a fresh identifier for one CLI invocation or MCP tool call.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID returns a logger whose records carry the given run identifier.
func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	return logger.With(slog.String(AttrRunID, runID))
}
