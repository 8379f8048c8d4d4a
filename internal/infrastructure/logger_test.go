package infrastructure

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leasecli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")

	// Close log file to allow reading on Windows
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestTraceIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	_, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := WithTraceID(context.Background(), "test-trace-123")

	logger := LoggerFromContext(ctx)
	logger.InfoContext(ctx, "test with trace")

	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	lastLine := lines[len(lines)-1]

	if err := json.Unmarshal([]byte(lastLine), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if logEntry["trace_id"] != "test-trace-123" {
		t.Errorf("Expected trace_id='test-trace-123', got %v", logEntry["trace_id"])
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			ResetLoggerForTesting()
			defer ResetLoggerForTesting()

			tempDir := t.TempDir()
			logFile := filepath.Join(tempDir, "test.log")

			cfg := config.LoggingConfig{
				Level:    tt.level,
				Format:   "json",
				Output:   "both",
				FilePath: logFile,
			}

			logger, err := InitializeLogger(cfg)
			if err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}

			switch tt.level {
			case "debug":
				logger.Debug("test debug")
			case "info":
				logger.Info("test info")
			case "warn":
				logger.Warn("test warn")
			case "error":
				logger.Error("test error")
			}

			CloseLogFile()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("Failed to read log file: %v", err)
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(content, &logEntry); err != nil {
				t.Fatalf("Failed to parse log JSON: %v", err)
			}

			if logEntry["level"] != tt.expected {
				t.Errorf("Expected level=%s, got %v", tt.expected, logEntry["level"])
			}
		})
	}
}

func TestTraceIDHelpers(t *testing.T) {
	ctx := context.Background()

	if got := GetTraceID(ctx); got != "" {
		t.Errorf("Expected empty trace ID on bare context, got %q", got)
	}

	ctx = WithTraceID(ctx, "abc-123")
	if got := GetTraceID(ctx); got != "abc-123" {
		t.Errorf("Expected trace ID 'abc-123', got %q", got)
	}

	ensured := EnsureTraceID(ctx)
	if got := GetTraceID(ensured); got != "abc-123" {
		t.Errorf("EnsureTraceID must not replace an existing trace ID, got %q", got)
	}

	generated := EnsureTraceID(context.Background())
	if got := GetTraceID(generated); got == "" {
		t.Error("EnsureTraceID must generate a trace ID when absent")
	}
}

func TestGenerateTraceIDUnique(t *testing.T) {
	a := GenerateTraceID()
	b := GenerateTraceID()

	if a == "" || b == "" {
		t.Fatal("Generated trace IDs must not be empty")
	}
	if a == b {
		t.Error("Generated trace IDs must be unique")
	}
}
