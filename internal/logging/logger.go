// Package logging provides structured logging configuration using log/slog.
//
// This package integrates with chi's RequestID middleware to propagate
// request IDs through structured log entries, and summarizes registry load
// diagnostics without flooding the log on a badly damaged file.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/siruta/internal/core"
)

// DefaultDiagnosticLimit is how many individual diagnostics LogDiagnostics
// writes before only counting the rest.
const DefaultDiagnosticLimit = 20

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format)))
}

// NewHandler returns the slog handler Setup installs, writing to w.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns a logger enriched with request context.
//
// When called with a request context that contains a chi RequestID,
// the returned logger includes request_id in all log entries.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
//	loadLogger := logging.WithFields(ctx, "source", path)
//	loadLogger.Info("registry loaded", "records", reg.Len())
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

// LogDiagnostics writes the first limit diagnostics at debug level, or warn
// for load-fatal kinds, followed by one info summary with a count per kind.
// A limit of 0 or less uses DefaultDiagnosticLimit.
func LogDiagnostics(logger *slog.Logger, source string, diags []core.Diagnostic, limit int) {
	if len(diags) == 0 {
		return
	}
	if limit <= 0 {
		limit = DefaultDiagnosticLimit
	}

	counts := make(map[core.DiagnosticKind]int)
	for i, d := range diags {
		counts[d.Kind]++
		if i < limit {
			level := slog.LevelDebug
			if d.Kind.Fatal() {
				level = slog.LevelWarn
			}
			logger.Log(context.Background(), level, "registry diagnostic",
				"source", source,
				"kind", string(d.Kind),
				"line", d.Line,
				"code", d.Code,
				"error", d.Message,
			)
		}
	}

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	attrs := []any{"source", source, "total", len(diags)}
	if len(diags) > limit {
		attrs = append(attrs, "not_shown", len(diags)-limit)
	}
	for _, k := range kinds {
		attrs = append(attrs, k, counts[core.DiagnosticKind(k)])
	}
	logger.Info("registry diagnostics summary", attrs...)
}
