// Package log provides a category-aware logger for the launcher,
// wrapping logrus.
package log

import (
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger struct, fields are not thread safe and should only be changed
// during startup.
type Logger struct {
	*logrus.Logger
	mu             sync.Mutex
	categoryFilter *regexp.Regexp
}

// NewNullLogger will create a logger where log lines will be discarded.
// Useful in tests.
func NewNullLogger() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log)
}

// New creates a new logger. If logger is nil, a default logrus logger
// is used.
func New(logger *logrus.Logger) *Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &Logger{Logger: logger}
}

// Tracef logs a trace message with the given category.
func (l *Logger) Tracef(category string, msg string, args ...any) {
	l.logf(logrus.TraceLevel, category, msg, args...)
}

// Debugf logs a debug message with the given category.
func (l *Logger) Debugf(category string, msg string, args ...any) {
	l.logf(logrus.DebugLevel, category, msg, args...)
}

// Infof logs an info message with the given category.
func (l *Logger) Infof(category string, msg string, args ...any) {
	l.logf(logrus.InfoLevel, category, msg, args...)
}

// Warnf logs a warning message with the given category.
func (l *Logger) Warnf(category string, msg string, args ...any) {
	l.logf(logrus.WarnLevel, category, msg, args...)
}

// Errorf logs an error message with the given category.
func (l *Logger) Errorf(category string, msg string, args ...any) {
	l.logf(logrus.ErrorLevel, category, msg, args...)
}

func (l *Logger) logf(level logrus.Level, category string, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Logger == nil || !l.Logger.IsLevelEnabled(level) {
		return
	}
	if l.categoryFilter != nil && !l.categoryFilter.MatchString(category) {
		return
	}
	entry := l.WithField("category", category)
	defer entry.Logf(level, msg, args...)
}

// SetLevel sets the logger level from a level string.
// Accepted values: panic, fatal, error, warn, warning, info, debug, trace.
func (l *Logger) SetLevel(level string) error {
	pl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.Logger.SetLevel(pl)
	return nil
}

// SetCategoryFilter enables filtering log lines by the category regex.
func (l *Logger) SetCategoryFilter(category string) (err error) {
	if category == "" {
		return nil
	}
	if l.categoryFilter, err = regexp.Compile(category); err != nil {
		return fmt.Errorf("invalid category filter %q: %w", category, err)
	}
	return nil
}

// DebugMode returns true if the logger level is set to Debug or higher.
func (l *Logger) DebugMode() bool {
	return l.Logger.IsLevelEnabled(logrus.DebugLevel)
}
