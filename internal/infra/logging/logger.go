// Package logging provides leveled logging for taskdeck.
// Entries are written by logrus in a fixed line format, to stderr or to a
// size-rotated file managed by lumberjack.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Entry field keys.
const (
	fieldTask     = "task"
	fieldCategory = "category"
)

// Logger adapts a logrus.Logger to domain.Logger.
type Logger struct {
	log    *logrus.Logger
	closer io.Closer
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level logrus.Level) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&LineFormatter{})
	l.SetLevel(level)
	return &Logger{log: l}
}

// NewFromConfig creates a Logger from the [log] config section.
// With an empty File, entries go to stderr; otherwise the file (relative to
// dataDir) is rotated by size.
func NewFromConfig(dataDir string, cfg domain.LogConfig) *Logger {
	level := ParseLevel(cfg.Level)
	if cfg.File == "" {
		return New(os.Stderr, level)
	}

	rotator := &lumberjack.Logger{
		Filename:   domain.ResolvePath(dataDir, cfg.File),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	l := New(rotator, level)
	l.closer = rotator
	return l
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, logrus.PanicLevel)
}

// ParseLevel parses a log level string into a logrus.Level.
func ParseLevel(levelStr string) logrus.Level {
	switch levelStr {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Logrus returns the underlying logger for components that log with fields.
func (l *Logger) Logrus() *logrus.Logger {
	return l.log
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) entry(taskID, category string) *logrus.Entry {
	return l.log.WithFields(logrus.Fields{
		fieldTask:     taskID,
		fieldCategory: category,
	})
}

// Info logs an info message.
func (l *Logger) Info(taskID, category, msg string) {
	l.entry(taskID, category).Info(msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID, category, msg string) {
	l.entry(taskID, category).Debug(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID, category, msg string) {
	l.entry(taskID, category).Warn(msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID, category, msg string) {
	l.entry(taskID, category).Error(msg)
}

// LineFormatter formats entries as:
//
//	[2025-12-30 09:32:51] [INFO] [task-<id>] [category] message
//
// Entries without a task ID are tagged [global]. Other fields are appended as key=value.
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	taskStr := "global"
	if id, _ := entry.Data[fieldTask].(string); id != "" {
		taskStr = "task-" + id
	}
	category, _ := entry.Data[fieldCategory].(string)
	if category == "" {
		category = "-"
	}

	fmt.Fprintf(b, "[%s] [%s] [%s] [%s] %s",
		entry.Time.Format("2006-01-02 15:04:05"),
		levelToString(entry.Level),
		taskStr,
		category,
		entry.Message,
	)
	for _, k := range sortedExtraKeys(entry.Data) {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func sortedExtraKeys(data logrus.Fields) []string {
	var keys []string
	for k := range data {
		if k != fieldTask && k != fieldCategory {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func levelToString(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "ERROR"
	default:
		return strings.ToUpper(logrus.InfoLevel.String())
	}
}
