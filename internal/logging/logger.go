// Package logging provides leveled, structured logging for the workspace agent.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) color() string {
	switch l {
	case DEBUG:
		return "\033[36m"
	case INFO:
		return "\033[32m"
	case WARN:
		return "\033[33m"
	case ERROR:
		return "\033[31m"
	default:
		return "\033[0m"
	}
}

// Logger writes leveled log lines with optional key=value fields.
type Logger struct {
	level  Level
	output io.Writer
	mu     *sync.Mutex
	fields map[string]interface{}
}

var defaultLogger = &Logger{
	level:  INFO,
	output: os.Stdout,
	mu:     &sync.Mutex{},
	fields: make(map[string]interface{}),
}

// SetLevel sets the global log level.
func SetLevel(level Level) {
	defaultLogger.level = level
}

// SetOutput sets the global output writer.
func SetOutput(w io.Writer) {
	defaultLogger.output = w
}

// Component returns a logger tagged with a component name.
func Component(name string) *Logger {
	return defaultLogger.WithField("component", name)
}

// WithField returns a logger with one field added.
func WithField(key string, value interface{}) *Logger {
	return defaultLogger.WithField(key, value)
}

// WithField returns a copy of the logger with one field added.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	next := &Logger{
		level:  l.level,
		output: l.output,
		mu:     l.mu,
		fields: make(map[string]interface{}, len(l.fields)+1),
	}
	for k, v := range l.fields {
		next.fields[k] = v
	}
	next.fields[key] = value
	return next
}

// WithFields returns a copy of the logger with multiple fields added.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	next := l.WithField("", nil)
	delete(next.fields, "")
	for k, v := range fields {
		next.fields[k] = v
	}
	return next
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}

	// Fields in sorted key order so output is stable.
	var fieldsStr string
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldsStr = " |"
		for _, k := range keys {
			fieldsStr += fmt.Sprintf(" %s=%v", k, l.fields[k])
		}
	}

	fmt.Fprintf(l.output, "%s %s[%s]%s %s%s\n",
		time.Now().Format("15:04:05"), level.color(), level.String(), "\033[0m", formatted, fieldsStr)
}

// Debug logs a debug message on the default logger.
func Debug(msg string, args ...interface{}) { defaultLogger.log(DEBUG, msg, args...) }

// Info logs an info message on the default logger.
func Info(msg string, args ...interface{}) { defaultLogger.log(INFO, msg, args...) }

// Warn logs a warning message on the default logger.
func Warn(msg string, args ...interface{}) { defaultLogger.log(WARN, msg, args...) }

// Error logs an error message on the default logger.
func Error(msg string, args ...interface{}) { defaultLogger.log(ERROR, msg, args...) }

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(DEBUG, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(INFO, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(WARN, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(ERROR, msg, args...) }
