package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	var console bytes.Buffer
	m := NewManager(WithConsole(&console))
	t.Cleanup(func() { _ = m.Close() })
	return m, &console
}

func readJSONLines(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}
	return records
}

func TestNewManager_Bootstrap(t *testing.T) {
	m, console := newTestManager(t)

	if m.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", m.Level(), DefaultLevel)
	}

	m.Logger().Info("starting", "port", 5000)
	m.Logger().Debug("hidden")

	out := console.String()
	if !strings.Contains(out, "msg=starting") || !strings.Contains(out, "port=5000") {
		t.Errorf("bootstrap output = %q, want text record", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at default level")
	}
}

func TestManager_LoggerStableAcrossUpgrade(t *testing.T) {
	m, _ := newTestManager(t)
	before := m.Logger()

	if err := m.Upgrade(filepath.Join(t.TempDir(), "codedoc.log"), slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	if m.Logger() != before {
		t.Error("Logger() changed across Upgrade")
	}
}

func TestManager_Upgrade_WritesBothOutputs(t *testing.T) {
	m, console := newTestManager(t)
	logPath := filepath.Join(t.TempDir(), "logs", "nested", "codedoc.log")

	if err := m.Upgrade(logPath, slog.LevelDebug); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}

	m.Logger().Debug("narrating unit", "unit", "add", "kind", "function")

	if !strings.Contains(console.String(), "unit=add") {
		t.Errorf("console output = %q", console.String())
	}

	records := readJSONLines(t, logPath)
	if len(records) != 1 {
		t.Fatalf("got %d file records, want 1", len(records))
	}
	rec := records[0]
	if rec["msg"] != "narrating unit" || rec["unit"] != "add" || rec["kind"] != "function" {
		t.Errorf("file record = %v", rec)
	}
	if rec["level"] != "DEBUG" {
		t.Errorf("file record level = %v, want DEBUG", rec["level"])
	}
}

func TestManager_ComponentLoggerFollowsUpgrade(t *testing.T) {
	m, _ := newTestManager(t)
	component := m.Logger().With("component", "server")

	logPath := filepath.Join(t.TempDir(), "codedoc.log")
	if err := m.Upgrade(logPath, slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}

	component.Info("listening", "addr", "127.0.0.1:5000")

	records := readJSONLines(t, logPath)
	if len(records) != 1 {
		t.Fatalf("got %d file records, want 1", len(records))
	}
	if records[0]["component"] != "server" || records[0]["addr"] != "127.0.0.1:5000" {
		t.Errorf("file record = %v", records[0])
	}
}

func TestManager_Upgrade_Appends(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "codedoc.log")
	if err := os.WriteFile(logPath, []byte(`{"msg":"previous run"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestManager(t)
	if err := m.Upgrade(logPath, slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	m.Logger().Info("this run")

	records := readJSONLines(t, logPath)
	if len(records) != 2 || records[0]["msg"] != "previous run" || records[1]["msg"] != "this run" {
		t.Errorf("records = %v, want previous then current", records)
	}
}

func TestManager_Upgrade_Errors(t *testing.T) {
	t.Run("path is a directory", func(t *testing.T) {
		m, _ := newTestManager(t)
		if err := m.Upgrade(t.TempDir(), slog.LevelInfo); err == nil {
			t.Error("Upgrade to a directory returned nil error")
		}
	})

	t.Run("read-only directory", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("permissions are not enforced for root")
		}
		dir := t.TempDir()
		if err := os.Chmod(dir, 0555); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

		m, _ := newTestManager(t)
		if err := m.Upgrade(filepath.Join(dir, "codedoc.log"), slog.LevelInfo); err == nil {
			t.Error("Upgrade into a read-only directory returned nil error")
		}
	})
}

func TestManager_SetLevel(t *testing.T) {
	m, console := newTestManager(t)

	m.SetLevel(slog.LevelError)
	m.Logger().Warn("dropped")
	m.SetLevel(slog.LevelDebug)
	m.Logger().Debug("kept")

	if m.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", m.Level())
	}
	out := console.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("console output = %q", out)
	}
}

func TestManager_SetLevelAppliesToFile(t *testing.T) {
	m, _ := newTestManager(t)
	logPath := filepath.Join(t.TempDir(), "codedoc.log")
	if err := m.Upgrade(logPath, slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}

	m.Logger().Debug("before")
	m.SetLevel(slog.LevelDebug)
	m.Logger().Debug("after")

	records := readJSONLines(t, logPath)
	if len(records) != 1 || records[0]["msg"] != "after" {
		t.Errorf("records = %v, want only the post-SetLevel record", records)
	}
}

func TestManager_Close(t *testing.T) {
	m, console := newTestManager(t)

	if err := m.Close(); err != nil {
		t.Errorf("Close before Upgrade = %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "codedoc.log")
	if err := m.Upgrade(logPath, slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m.Logger().Info("after close")
	if !strings.Contains(console.String(), "after close") {
		t.Error("logging after Close did not reach the console")
	}
	if records := readJSONLines(t, logPath); len(records) != 0 {
		t.Errorf("file received %d records after Close", len(records))
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}
