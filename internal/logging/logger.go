// Package logging provides the structured logger used across the brain
// runtime. The console UI writes frames to the terminal, so loggers must
// never print to stdout; they target a file or are discarded.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// LogField is a key-value pair attached to a log entry.
type LogField struct {
	Key   string
	Value any
}

// Field creates a LogField from a key-value pair.
func Field(key string, value any) LogField {
	return LogField{Key: key, Value: value}
}

// Logger is the structured logging contract with context support.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...LogField)
	Info(ctx context.Context, msg string, fields ...LogField)
	Warn(ctx context.Context, msg string, fields ...LogField)
	Error(ctx context.Context, msg string, err error, fields ...LogField)
	WithFields(fields ...LogField) Logger
}

// Nop discards every log entry.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...LogField)        {}
func (Nop) Info(context.Context, string, ...LogField)         {}
func (Nop) Warn(context.Context, string, ...LogField)         {}
func (Nop) Error(context.Context, string, error, ...LogField) {}
func (Nop) WithFields(...LogField) Logger                     { return Nop{} }

// WriterLogger writes structured entries to an io.Writer. It includes the
// session id from the context when one is present.
type WriterLogger struct {
	fields   []LogField
	minLevel Level
	logger   *log.Logger
}

// NewWriterLogger creates a logger with the given minimum level. A nil
// writer discards everything.
func NewWriterLogger(minLevel Level, w io.Writer) *WriterLogger {
	if w == nil {
		w = io.Discard
	}
	return &WriterLogger{
		minLevel: minLevel,
		logger:   log.New(w, "", 0),
	}
}

func (l *WriterLogger) log(ctx context.Context, level Level, msg string, err error, fields ...LogField) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}
	all := append(append([]LogField(nil), l.fields...), fields...)
	if id := SessionID(ctx); id != "" {
		all = append(all, Field("session_id", id))
	}

	parts := []string{
		fmt.Sprintf("[%s]", time.Now().Format(time.RFC3339)),
		fmt.Sprintf("[%s]", level),
	}
	if err != nil {
		parts = append(parts, fmt.Sprintf("[error=%q]", err.Error()))
	}
	parts = append(parts, msg)
	if len(all) > 0 {
		kv := make([]string, 0, len(all))
		for _, f := range all {
			kv = append(kv, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		parts = append(parts, fmt.Sprintf("fields=[%s]", strings.Join(kv, " ")))
	}
	l.logger.Println(strings.Join(parts, " "))
}

func (l *WriterLogger) Debug(ctx context.Context, msg string, fields ...LogField) {
	l.log(ctx, LevelDebug, msg, nil, fields...)
}

func (l *WriterLogger) Info(ctx context.Context, msg string, fields ...LogField) {
	l.log(ctx, LevelInfo, msg, nil, fields...)
}

func (l *WriterLogger) Warn(ctx context.Context, msg string, fields ...LogField) {
	l.log(ctx, LevelWarn, msg, nil, fields...)
}

func (l *WriterLogger) Error(ctx context.Context, msg string, err error, fields ...LogField) {
	l.log(ctx, LevelError, msg, err, fields...)
}

func (l *WriterLogger) WithFields(fields ...LogField) Logger {
	return &WriterLogger{
		fields:   append(append([]LogField(nil), l.fields...), fields...),
		minLevel: l.minLevel,
		logger:   l.logger,
	}
}

type sessionIDKey struct{}

// WithSessionID attaches a session id to the context for log correlation.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionID extracts the session id from the context, if present.
func SessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewSessionID creates a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
