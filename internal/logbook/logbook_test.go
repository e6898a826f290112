package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "activity.log")
	lb, err := New(path, "info")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer lb.Close()

	lb.Info("session opened")
	lb.Warn("request slow: %dms", 1200)
	lb.Error("login failed for %s", "ana@example.com")

	lines := lb.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "session opened") {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[2], "login failed for ana@example.com") {
		t.Fatalf("unexpected last line: %s", lines[2])
	}
}

func TestTailLimitsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	lb, err := New(path, "info")
	if err != nil {
		t.Fatal(err)
	}
	defer lb.Close()
	for i := 0; i < 20; i++ {
		lb.Info("entry %d", i)
	}
	lines := lb.Tail(5)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[4], "entry 19") {
		t.Fatalf("expected newest entry last, got %s", lines[4])
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	lb, err := New(path, "warn")
	if err != nil {
		t.Fatal(err)
	}
	defer lb.Close()
	lb.Debug("hidden")
	lb.Info("also hidden")
	lb.Warn("visible")
	lines := lb.Tail(10)
	if len(lines) != 1 || !strings.Contains(lines[0], "visible") {
		t.Fatalf("expected only the warn entry, got %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("must not panic")
	if lb.Path() != "" {
		t.Fatal("nil logbook path must be empty")
	}
	if lines := lb.Tail(3); lines != nil {
		t.Fatalf("nil logbook tail must be nil, got %v", lines)
	}
}
