package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across midcalc.
type Logger interface {
	Info(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is a structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates a field under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// ─────────────────────────────────────────────────────────────────────────────
// Zerolog backend
// ─────────────────────────────────────────────────────────────────────────────

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Log formats accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// New returns the logger for format: JSON lines through zerolog, or
// prefixed text lines through the standard library logger. Entries below
// level are dropped by both.
func New(w io.Writer, component, format string, level zerolog.Level) Logger {
	if format == FormatText {
		return NewStdLoggerAdapter(log.New(w, component+" ", log.LstdFlags)).WithLevel(level)
	}
	return NewLogger(w, component).WithLevel(level)
}

// NewLogger returns a logger writing JSON lines to w, tagging every entry
// with the given component name. Workers log from many goroutines, so w is
// wrapped in a zerolog.SyncWriter.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(zerolog.SyncWriter(w)).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *ZerologAdapter {
	return NewZerologAdapter(zerolog.Nop())
}

// WithLevel returns a copy of the adapter that drops entries below level.
func (z *ZerologAdapter) WithLevel(level zerolog.Level) *ZerologAdapter {
	return NewZerologAdapter(z.logger.Level(level))
}

// ParseLevel maps a level name onto a zerolog level. Unknown names fall back
// to warn.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.WarnLevel
	}
	return level
}

// Info logs at info level.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	z.applyFields(z.logger.Info(), fields).Msg(msg)
}

// Debug logs at debug level.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	z.applyFields(z.logger.Debug(), fields).Msg(msg)
}

// Error logs at error level with err attached under the "error" key.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	z.applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

// Println logs its arguments separated by spaces at info level.
func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (z *ZerologAdapter) applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case uint64:
			e = e.Uint64(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case time.Duration:
			e = e.Dur(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	return e
}

// ─────────────────────────────────────────────────────────────────────────────
// Standard library backend
// ─────────────────────────────────────────────────────────────────────────────

// StdLoggerAdapter implements Logger on top of a *log.Logger. A *log.Logger
// serialises its writes, so the adapter is safe for concurrent use.
type StdLoggerAdapter struct {
	logger *log.Logger
	level  zerolog.Level
}

// NewStdLoggerAdapter wraps a standard library logger. Every level is
// printed until WithLevel says otherwise.
func NewStdLoggerAdapter(logger *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger, level: zerolog.DebugLevel}
}

// WithLevel returns a copy of the adapter that drops entries below level.
func (s *StdLoggerAdapter) WithLevel(level zerolog.Level) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: s.logger, level: level}
}

func (s *StdLoggerAdapter) enabled(level zerolog.Level) bool {
	return level >= s.level
}

// Info logs with an [INFO] prefix.
func (s *StdLoggerAdapter) Info(msg string, fields ...Field) {
	if s.enabled(zerolog.InfoLevel) {
		s.logger.Printf("[INFO] %s%s", msg, formatFields(fields))
	}
}

// Debug logs with a [DEBUG] prefix.
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	if s.enabled(zerolog.DebugLevel) {
		s.logger.Printf("[DEBUG] %s%s", msg, formatFields(fields))
	}
}

// Error logs with an [ERROR] prefix.
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	if s.enabled(zerolog.ErrorLevel) {
		s.logger.Printf("[ERROR] %s: %v%s", msg, err, formatFields(fields))
	}
}

// Printf logs a formatted message at info level.
func (s *StdLoggerAdapter) Printf(format string, args ...any) {
	if s.enabled(zerolog.InfoLevel) {
		s.logger.Printf(format, args...)
	}
}

// Println logs its arguments at info level.
func (s *StdLoggerAdapter) Println(args ...any) {
	if s.enabled(zerolog.InfoLevel) {
		s.logger.Println(args...)
	}
}

func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
