// Package logging writes leveled diagnostics. The dashboard owns the
// terminal, so output goes to a file or is discarded.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents logging severity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var (
	mu           sync.Mutex
	currentLevel = LevelWarn
	logger       = log.New(io.Discard, "", log.LstdFlags|log.Lmsgprefix)
	closer       io.Closer
)

// SetVerbosity maps the count of -v flags onto a level.
func SetVerbosity(count int) {
	mu.Lock()
	defer mu.Unlock()
	switch {
	case count <= 0:
		currentLevel = LevelWarn
	case count == 1:
		currentLevel = LevelInfo
	default:
		currentLevel = LevelDebug
	}
}

// setOutput sends log lines to w.
func setOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// OpenFile appends log lines to path. An empty path keeps output discarded.
func OpenFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	logger.SetOutput(f)
	closer = f
	return nil
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(io.Discard)
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// LevelName returns the current level label.
func LevelName() string {
	mu.Lock()
	defer mu.Unlock()
	switch currentLevel {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

func logf(l Level, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l > currentLevel {
		return
	}
	logger.Printf("[%s] %s", strings.ToUpper(prefix), fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...any) {
	logf(LevelError, "err", format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, "warn", format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, "info", format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, "dbg", format, args...)
}
