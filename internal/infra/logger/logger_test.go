package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesJSONLines(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root, Debug: true})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if err := IsReady(); err != nil {
		t.Fatalf("expected logger ready: %v", err)
	}
	want := filepath.Join(root, ".suitemap", "logs", "suitemap.log")
	if Path() != want {
		t.Fatalf("expected path %s, got %s", want, Path())
	}

	L().Debug("soap.call", "action", "get")

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if err := IsReady(); err == nil {
		t.Fatalf("expected logger reset after cleanup")
	}

	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), b)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if entry["msg"] != "soap.call" || entry["action"] != "get" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if ts, _ := entry["time"].(string); !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected UTC timestamp, got %v", entry["time"])
	}
}

func TestSetupTagsCommand(t *testing.T) {
	root := t.TempDir()
	cleanup, err := Setup(Config{Root: root, Command: "suitemap get"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	L().Info("cli.action", "action", "get")
	L().Debug("dropped at info level")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if Path() != "" {
		t.Fatalf("expected no path after cleanup, got %q", Path())
	}

	b, err := os.ReadFile(filepath.Join(Dir(root), FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), b)
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("expected json line: %v", err)
		}
		if entry["cmd"] != "suitemap get" {
			t.Fatalf("expected cmd on every entry, got %v", entry)
		}
	}
}
