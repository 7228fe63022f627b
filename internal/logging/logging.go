// Package logging configures the slog logger shared by the CLI commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liyacrafter/viewcheck/internal/config"
)

const (
	filePrefix = "viewcheck-"
	fileLayout = "2006-01-02"
)

// Options configures Setup.
type Options struct {
	Level         string
	Directory     string // default ~/.viewcheck/logs/
	RetentionDays int    // files older than this are removed; 0 keeps everything
	Console       io.Writer
	JSON          bool
}

// Setup creates a logger writing to the console and to a dated file in the
// log directory. The returned closer closes the file.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	directory := opts.Directory
	if directory == "" {
		directory = "~/.viewcheck/logs/"
	}
	directory = config.ExpandHome(directory)

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	now := time.Now()
	logPath := filepath.Join(directory, FileName(now))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	writer := io.MultiWriter(console, file)

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}
	logger := slog.New(handler)

	if opts.RetentionDays > 0 {
		removed, err := Prune(directory, opts.RetentionDays, now)
		if err != nil {
			logger.Warn("pruning old log files", "error", err)
		} else if len(removed) > 0 {
			logger.Debug("pruned old log files", "count", len(removed))
		}
	}

	return logger, file, nil
}

// FileName returns the log file name for day t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(fileLayout) + ".log"
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Prune removes dated log files in dir older than retentionDays relative to
// now and returns the removed paths. Other files are left alone.
func Prune(dir string, retentionDays int, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading log directory: %w", err)
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, now.Location())

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		day, err := time.ParseInLocation(fileLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".log"), now.Location())
		if err != nil {
			continue
		}
		if !day.Before(cutoffDay) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
