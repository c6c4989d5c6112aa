package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"unify/internal/logging"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logging.WithComponent(logger, "engine").Info("scored pairs", "total", 12, "elapsed", "1.2s")

	line := buf.String()
	if !strings.Contains(line, "INFO engine: scored pairs") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "total=12") {
		t.Fatalf("missing attribute in %q", line)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("loading records", "count", 3)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if payload["msg"] != "loading records" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatal("expected ts key in JSON output")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("should be suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info line leaked through warn level: %q", buf.String())
	}
	logger.Warn("visible")
	if !strings.Contains(buf.String(), "WARN visible") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("goes nowhere")
}
