// Package logging sets up zerolog-based structured logging for framectl
// and the library's own internal diagnostics, keeping the teacher's
// XDG-based log-directory convention and Setup(logDir, verbose, noLog,
// cmdArgs) constructor shape.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogDir returns the default log directory following the XDG Base
// Directory spec: $XDG_STATE_HOME/mediacore/logs, or
// ~/.local/state/mediacore/logs if unset.
func DefaultLogDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "mediacore", "logs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "mediacore", "logs")
	}
	return filepath.Join(home, ".local", "state", "mediacore", "logs")
}

// Logger wraps a zerolog.Logger bound to a timestamped log file, with a
// nil-receiver-safe API so callers can hold a possibly-nil *Logger
// without branching on every call site (Setup returns nil when noLog is set).
type Logger struct {
	zl       zerolog.Logger
	file     *os.File
	filePath string
}

// Setup creates a logger writing to a timestamped file under logDir.
// Returns (nil, nil) if noLog is true. cmdArgs is typically os.Args, logged
// once at startup so a log file is self-describing.
func Setup(logDir string, verbose, noLog bool, cmdArgs []string) (*Logger, error) {
	if noLog {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filePath := filepath.Join(logDir, fmt.Sprintf("mediacore_run_%s.log", timestamp))

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating log file %s: %w", filePath, err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(file).Level(level).With().Timestamp().Logger()

	l := &Logger{zl: zl, file: file, filePath: filePath}
	l.Info("command invoked", "args", strings.Join(cmdArgs, " "))
	l.Info("log file opened", "path", filePath)
	return l, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Info logs an info-level message with structured key/value pairs.
func (l *Logger) Info(msg string, kv ...any) {
	if l == nil {
		return
	}
	logKV(l.zl.Info(), msg, kv)
}

// Debug logs a debug-level message; suppressed unless Setup was called
// with verbose=true.
func (l *Logger) Debug(msg string, kv ...any) {
	if l == nil {
		return
	}
	logKV(l.zl.Debug(), msg, kv)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string, kv ...any) {
	if l == nil {
		return
	}
	logKV(l.zl.Warn(), msg, kv)
}

func logKV(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

// Writer returns an io.Writer over the log file, used to fan other
// loggers (e.g. the composite reporter) into the same file.
func (l *Logger) Writer() io.Writer {
	if l == nil || l.file == nil {
		return io.Discard
	}
	return l.file
}
