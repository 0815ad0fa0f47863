package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/patchwork/internal/config"
)

func TestPrintfAppendsTimestampedLines(t *testing.T) {
	projectDir := t.TempDir()
	logger, err := New(projectDir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Printf("engine: %s\n", "boom")
	logger.Printf("second")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	want := filepath.Join(projectDir, config.PatchworkDir, "logs", "patchwork.log")
	if logger.Path() != want {
		t.Fatalf("path = %q, want %q", logger.Path(), want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2", lines)
	}
	if !strings.HasPrefix(lines[0], "[") || !strings.HasSuffix(lines[0], "] engine: boom") {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Printf("ignored")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
