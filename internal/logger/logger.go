// Package logger provides small leveled, named loggers.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel parses a level name case-insensitively. Unknown names map to
// LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes timestamped lines tagged with its name and level.
type Logger struct {
	name  string
	level Level
	mu    sync.Mutex
	w     io.Writer
	now   func() time.Time
}

// NewLogger creates a logger that writes messages at or above level to
// writer. A nil writer means os.Stdout.
func NewLogger(name, level string, writer io.Writer) *Logger {
	if writer == nil {
		writer = os.Stdout
	}
	return &Logger{
		name:  name,
		level: ParseLevel(level),
		w:     writer,
		now:   time.Now,
	}
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the minimum level that is written.
func (l *Logger) Level() Level {
	return l.level
}

// Enabled reports whether messages at lv are written.
func (l *Logger) Enabled(lv Level) bool {
	return lv >= l.level
}

func (l *Logger) logf(lv Level, format string, args ...any) {
	if !l.Enabled(lv) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	ts := l.now().Format("2006-01-02 15:04:05.000")
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "[%s][%s][%s] %s\n", ts, lv, l.name, msg)
}

// Debugf logs a DEBUG line.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs an INFO line.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs a WARN line.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs an ERROR line.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }
