// Package logging provides real-time console output for vogsphere runs.
// Lines are human-readable and go to stderr by default so the generated
// Markdown can be piped from stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vinayprograms/vogsphere/errors"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger writes levelled key=value lines.
type Logger struct {
	mu        *sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
}

var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a case-insensitive name to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelPriority[l]; ok {
		return l
	}
	return LevelInfo
}

// New creates a new Logger writing INFO and above to stderr.
func New() *Logger {
	return &Logger{
		mu:       &sync.Mutex{},
		output:   os.Stderr,
		minLevel: LevelInfo,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	l := New()
	l.output = io.Discard
	return l
}

// WithComponent returns a new logger with the given component name.
// The new logger shares the parent's output lock.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		mu:        l.mu,
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stderr).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats fields as key=value pairs in key order.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return " " + strings.Join(parts, " ")
}

// log writes: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- Run events ---

// RunStart logs the start of a processing run.
func (l *Logger) RunStart(profile, provider string) {
	l.Info("run_start", map[string]interface{}{
		"profile":  profile,
		"provider": provider,
	})
}

// ExtractionComplete logs the page extraction result.
func (l *Logger) ExtractionComplete(title, url string, chars int) {
	l.Debug("extraction_complete", map[string]interface{}{
		"title": title,
		"url":   url,
		"chars": chars,
	})
}

// ProviderRequest logs the outbound provider call. Headers are never logged.
func (l *Logger) ProviderRequest(url, provider string) {
	l.Info("provider_request", map[string]interface{}{
		"url":      url,
		"provider": provider,
	})
}

// RunComplete logs a successful run.
func (l *Logger) RunComplete(duration time.Duration, chars int) {
	l.Info("run_complete", map[string]interface{}{
		"duration": duration.String(),
		"chars":    chars,
	})
}

// RunFailed logs a failed run with its error code.
func (l *Logger) RunFailed(err error) {
	fields := map[string]interface{}{
		"error": err.Error(),
	}
	if code := errors.Code(err); code != "" {
		fields["code"] = code
	}
	l.Error("run_failed", fields)
}

// NoteExported logs where a note was written.
func (l *Logger) NoteExported(path string) {
	l.Info("note_exported", map[string]interface{}{
		"path": path,
	})
}
