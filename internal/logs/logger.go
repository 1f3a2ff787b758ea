package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger discards everything until Initialize points it at a file.
	// The terminal belongs to the TUI, so logs never go to stderr.
	Logger  = newLogger(io.Discard, log.InfoLevel)
	logFile *os.File
	mu      sync.Mutex
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "tagdo",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
}

// Initialize reinitializes the logger to append to logPath at the given
// level ("debug", "info", "warn", "error").
func Initialize(logPath, level string) error {
	mu.Lock()
	defer mu.Unlock()

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	if logPath == "" {
		Logger.SetLevel(lvl)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}

	logFile = f
	Logger = newLogger(f, lvl)
	Logger.Debug("logger initialized", "path", logPath)
	return nil
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		Logger = newLogger(io.Discard, Logger.GetLevel())
		return err
	}
	return nil
}
