package logger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a logger implementation for testing that captures all log
// messages. Loggers derived via WithField share the parent's message sink.
type TestLogger struct {
	root    *testSink
	fields  map[string]interface{}
	zerolog *zerolog.Logger
}

type testSink struct {
	mu       sync.Mutex
	messages []LogMessage
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	nopLogger := zerolog.Nop()
	return &TestLogger{
		root:    &testSink{},
		fields:  make(map[string]interface{}),
		zerolog: &nopLogger,
	}
}

// Messages returns a copy of all captured messages
func (l *TestLogger) Messages() []LogMessage {
	l.root.mu.Lock()
	defer l.root.mu.Unlock()
	out := make([]LogMessage, len(l.root.messages))
	copy(out, l.root.messages)
	return out
}

// HasMessage reports whether a message with the given level and text was logged
func (l *TestLogger) HasMessage(level, msg string) bool {
	l.root.mu.Lock()
	defer l.root.mu.Unlock()
	for _, m := range l.root.messages {
		if m.Level == level && m.Message == msg {
			return true
		}
	}
	return false
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	l.root.mu.Lock()
	defer l.root.mu.Unlock()
	l.root.messages = append(l.root.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
	})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *TestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.log("FATAL", msg, fields)
}

// WithField returns a logger that attaches the field to subsequent messages
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	child := &TestLogger{
		root:    l.root,
		fields:  make(map[string]interface{}, len(l.fields)+1),
		zerolog: l.zerolog,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	child.fields[key] = value
	return child
}

// WithFields returns a logger that attaches the fields to subsequent messages
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	logger := Logger(l)
	for k, v := range fields {
		logger = logger.WithField(k, v)
	}
	return logger
}

// WithError attaches the error as a field
func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// WithContext is a no-op for the test logger
func (l *TestLogger) WithContext(ctx context.Context) Logger {
	return l
}

// GetZerolog returns a no-op zerolog instance
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return l.zerolog
}
