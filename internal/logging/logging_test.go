package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_RejectsBadLevelAndEncoding(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(Config{Level: "info", Encoding: "xml"}); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func TestNew_WritesRotatedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	cfg := DefaultConfig()
	cfg.Level, cfg.Encoding, cfg.File = "debug", "json", path
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hello file")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "hello file") {
		t.Fatalf("log file %q missing message", string(b))
	}
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) returned nil")
	}
}
