package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/siruta/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "info", "json"))

	logger.Debug("hidden")
	logger.Info("shown", "code", 10)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["code"] != float64(10) {
		t.Errorf("entry = %v", entry)
	}
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(NewHandler(&buf, "info", "text")))
	defer slog.SetDefault(prev)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	FromContext(ctx).Info("lookup")

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("log entry missing request id: %q", buf.String())
	}
}

func TestLogDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "debug", "text"))

	diags := []core.Diagnostic{
		{Kind: core.DiagChecksum, Line: 17, Code: 86453, Message: "SIRUTA code 86453 is not valid"},
		{Kind: core.DiagFieldCount, Line: 23, Message: "row has 14 fields, want 15"},
		{Kind: core.DiagChecksum, Line: 30, Code: 1003, Message: "SIRUTA code 1003 is not valid"},
	}
	LogDiagnostics(logger, "siruta.csv", diags, 2)

	out := buf.String()
	if got := strings.Count(out, `msg="registry diagnostic"`); got != 2 {
		t.Errorf("individual entries = %d, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "level=INFO") {
		t.Errorf("want debug entries and an info summary:\n%s", out)
	}
	if strings.Contains(out, "line=30") {
		t.Errorf("entry past the limit should not be logged:\n%s", out)
	}
	for _, want := range []string{"total=3", "not_shown=1", "checksum=2", "field_count=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestLogDiagnostics_FatalAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "warn", "text"))

	LogDiagnostics(logger, "siruta.csv", []core.Diagnostic{
		{Kind: core.DiagSourceUnavailable, Message: "open siruta.csv: no such file or directory"},
		{Kind: core.DiagChecksum, Line: 17, Code: 86453, Message: "SIRUTA code 86453 is not valid"},
	}, 0)

	out := buf.String()
	if !strings.Contains(out, "kind=source_unavailable") {
		t.Errorf("fatal diagnostic should be logged at warn:\n%s", out)
	}
	if strings.Contains(out, "kind=checksum") {
		t.Errorf("row diagnostic should stay at debug:\n%s", out)
	}
}

func TestLogDiagnostics_Empty(t *testing.T) {
	var buf bytes.Buffer
	LogDiagnostics(slog.New(NewHandler(&buf, "info", "text")), "siruta.csv", nil, 0)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
