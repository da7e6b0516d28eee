package contextutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	tests := []struct {
		name       string
		ctx        context.Context
		wantCustom bool
	}{
		{
			name:       "logger in context",
			ctx:        WithLogger(context.Background(), logger),
			wantCustom: true,
		},
		{
			name: "no logger falls back to default",
			ctx:  context.Background(),
		},
		{
			name: "wrong type under key falls back to default",
			ctx:  context.WithValue(context.Background(), LoggerKey(), "not a logger"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoggerFromContext(tt.ctx)
			if got == nil {
				t.Fatal("LoggerFromContext() returned nil")
			}
			if tt.wantCustom && got != logger {
				t.Error("LoggerFromContext() did not return the context logger")
			}
			if !tt.wantCustom && got != slog.Default() {
				t.Error("LoggerFromContext() should return slog.Default()")
			}
		})
	}
}

func TestWithLogger_AttributesPropagate(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("document_id", "doc-1")

	ctx := WithLogger(context.Background(), logger)
	LoggerFromContext(ctx).Info("chunked")

	if !strings.Contains(buf.String(), "document_id=doc-1") {
		t.Errorf("log output = %q, want document_id attribute", buf.String())
	}
}
