package observability

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestServiceNameDefaultsAndReadsEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	if got := ServiceName(); got != "calcify" {
		t.Fatalf("expected default service name %q, got %q", "calcify", got)
	}

	t.Setenv("OTEL_SERVICE_NAME", "calcify-test")
	if got := ServiceName(); got != "calcify-test" {
		t.Fatalf("expected service name %q, got %q", "calcify-test", got)
	}
}

func TestInitFileLoggerWritesJSONToFile(t *testing.T) {
	oldLogger := Logger
	t.Cleanup(func() { Logger = oldLogger })

	path := filepath.Join(t.TempDir(), "calcify.log")
	if err := InitFileLogger(path, zap.NewAtomicLevelAt(zap.InfoLevel)); err != nil {
		t.Fatalf("initialising file logger: %v", err)
	}

	Logger.Info("evaluation completed", zap.String("result", "15"))
	SyncLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	if !strings.Contains(string(data), `"result":"15"`) {
		t.Fatalf("expected log file to contain result field, got %q", data)
	}
}

func TestLoggerWithTraceWithoutSpanReturnsGlobal(t *testing.T) {
	if got := LoggerWithTrace(context.Background()); got != Logger {
		t.Fatal("expected global logger when no span is active")
	}
}
