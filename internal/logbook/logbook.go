// Package logbook persists application activity to a plain text file so
// operators can inspect failed requests after the TUI session ends. The
// most recent entries are also surfaced inside the TUI log panel.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logbook writes leveled entries to a single append-only file.
type Logbook struct {
	path   string
	file   *os.File
	logger zerolog.Logger
	mu     sync.Mutex
}

// New creates a logbook that writes to the provided path. The level string
// accepts debug, info, warn and error; anything else falls back to info.
func New(path, level string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open log file: %w", err)
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        file,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
	return &Logbook{path: path, file: file, logger: logger}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle.
func (l *Logbook) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Tail returns up to maxLines of the most recent log entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Debug appends a debug entry.
func (l *Logbook) Debug(format string, args ...any) {
	l.append(zerolog.DebugLevel, format, args...)
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.append(zerolog.InfoLevel, format, args...)
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.append(zerolog.WarnLevel, format, args...)
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.append(zerolog.ErrorLevel, format, args...)
}

func (l *Logbook) append(level zerolog.Level, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.WithLevel(level).Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
