package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lottie2video/internal/config"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
)

func emitJobLine(t *testing.T, format string) string {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: format, Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithJob(services.WithBatchID(context.Background(), "b-1"), "intro")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "capture")).Info("capture progress", logging.Int("done", 36))
	return buf.String()
}

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logPath := logging.RunLogPath(cfg.Paths.LogDir, time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC))
	if filepath.Base(logPath) != "lottie2video-20260301T123000.000Z.log" {
		t.Fatalf("unexpected run log name %s", logPath)
	}
	if logging.RunLogPath("", time.Now()) != "" {
		t.Fatal("no log dir must mean no run log")
	}
	logger, err := logging.NewFromConfig(&cfg, logPath)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLinePrefixesComponentAndJob(t *testing.T) {
	line := emitJobLine(t, "console")
	for _, fragment := range []string{"INFO  capture[intro]: capture progress", "batch_id=b-1", "done=36"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, "job=") || strings.Contains(line, "component=") {
		t.Fatalf("prefix fields must not repeat as key=value: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("encode failed", logging.Error(errors.New("codec not found")), logging.String("empty", ""))
	line := buf.String()
	if !strings.Contains(line, `error="codec not found"`) || !strings.Contains(line, `empty=""`) {
		t.Fatalf("unexpected quoting in %q", line)
	}
	if !strings.Contains(line, "WARN  encode failed") {
		t.Fatalf("expected bare message without prefix, got %q", line)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(emitJobLine(t, "json"))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["msg"] != "capture progress" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record["component"] != "capture" || record["job"] != "intro" || record["batch_id"] != "b-1" {
		t.Fatalf("expected component, job and batch id, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logging.WarnWithContext(logger, "history disabled", "history_unavailable",
		logging.String(logging.FieldImpact, "run not recorded"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldEventType] != "history_unavailable" || record[logging.FieldImpact] != "run not recorded" {
		t.Fatalf("unexpected warning fields: %v", record)
	}
	if hint, _ := record[logging.FieldErrorHint].(string); hint == "" {
		t.Fatalf("expected default error hint, got %v", record)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("ignored")
	logging.WarnWithContext(nil, "ignored", "noop")
}

func TestPruneLogsKeepsActiveAndRecent(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -30)
	for _, name := range []string{"lottie2video-active.log", "lottie2video-old.log", "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
	}
	fresh := filepath.Join(dir, "lottie2video-new.log")
	if err := os.WriteFile(fresh, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed := logging.PruneLogs(logging.NewNop(), dir, "lottie2video-*.log", 14, filepath.Join(dir, "lottie2video-active.log"))
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	for _, keep := range []string{"lottie2video-active.log", "notes.txt", "lottie2video-new.log"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Fatalf("expected %s to survive: %v", keep, err)
		}
	}
	if logging.PruneLogs(nil, dir, "*", 0, "") != 0 {
		t.Fatal("retention 0 should disable pruning")
	}
}
