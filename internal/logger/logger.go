// Package logger provides leveled logging for the sqlsplit command and its
// execution layers. The splitter itself never logs.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

// Level orders log severities
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns a string representation of Level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Logger writes prefixed, leveled messages. Debug output is shown only in verbose mode.
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	loggers [LevelError + 1]*log.Logger
}

var defaultLogger = New(false, os.Stderr)

// New creates a new logger writing to output
func New(verbose bool, output io.Writer) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		verbose: verbose,
		loggers: [...]*log.Logger{
			LevelDebug: log.New(output, "[DEBUG] ", flags),
			LevelInfo:  log.New(output, "[INFO]  ", flags),
			LevelWarn:  log.New(output, "[WARN]  ", flags),
			LevelError: log.New(output, "[ERROR] ", flags),
		},
	}
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the default logger instance
func Default() *Logger {
	return defaultLogger
}

// SetVerbose enables or disables debug output
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	l.verbose = verbose
	l.mu.Unlock()
}

// IsVerbose returns whether debug output is enabled
func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// Log writes a message at level
func (l *Logger) Log(level Level, format string, args ...any) {
	if level < LevelDebug || level > LevelError {
		return
	}
	if level == LevelDebug && !l.IsVerbose() {
		return
	}
	l.loggers[level].Printf(format, args...)
}

// Debug logs a debug message (only shown if verbose is enabled)
func (l *Logger) Debug(format string, args ...any) { l.Log(LevelDebug, format, args...) }

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Warn logs a warning
func (l *Logger) Warn(format string, args ...any) { l.Log(LevelWarn, format, args...) }

// Error logs an error message
func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }

// Package-level functions that use the default logger

// SetVerbose enables or disables debug output on the default logger
func SetVerbose(verbose bool) { defaultLogger.SetVerbose(verbose) }

// IsVerbose returns whether debug output is enabled on the default logger
func IsVerbose() bool { return defaultLogger.IsVerbose() }

func Debug(format string, args ...any) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...any)  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...any)  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...any) { defaultLogger.Error(format, args...) }
