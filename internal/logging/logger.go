package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

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

// Bool creates a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration creates a time.Duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates a field holding err under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the logging interface used across the application.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a zerolog-backed Logger writing JSON lines to w, tagged
// with a component field.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// NewConsoleLogger creates a human-readable zerolog Logger writing to w at
// the given level. Unknown level names fall back to info.
func NewConsoleLogger(w io.Writer, component, level string) *ZerologAdapter {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: noColor()}
	zl := zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// WithLevel returns a copy of z that drops entries below level. Unknown
// level names fall back to info.
func (z *ZerologAdapter) WithLevel(level string) *ZerologAdapter {
	return NewZerologAdapter(z.logger.Level(parseLevel(level)))
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Info logs at info level.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(z.logger.Info(), fields).Msg(msg)
}

// Warn logs at warn level.
func (z *ZerologAdapter) Warn(msg string, fields ...Field) {
	applyFields(z.logger.Warn(), fields).Msg(msg)
}

// Error logs at error level with err attached.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

// Debug logs at debug level.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(z.logger.Debug(), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

// Println logs its arguments, space separated, at info level.
func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
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

// StdLoggerAdapter implements Logger on top of the standard library logger,
// writing "[LEVEL] message key=value" lines.
type StdLoggerAdapter struct {
	logger *log.Logger
	level  zerolog.Level
}

// NewStdLoggerAdapter wraps a *log.Logger. All levels are written until
// WithLevel narrows them.
func NewStdLoggerAdapter(logger *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger, level: zerolog.DebugLevel}
}

// NewPlainLogger creates a StdLoggerAdapter writing timestamped lines
// prefixed with component to w at the given level.
func NewPlainLogger(w io.Writer, component, level string) *StdLoggerAdapter {
	return NewStdLoggerAdapter(log.New(w, component+": ", log.LstdFlags)).WithLevel(level)
}

// WithLevel returns a copy of s that drops entries below level. Unknown
// level names fall back to info.
func (s *StdLoggerAdapter) WithLevel(level string) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: s.logger, level: parseLevel(level)}
}

// Info logs with an [INFO] prefix.
func (s *StdLoggerAdapter) Info(msg string, fields ...Field) {
	s.printf(zerolog.InfoLevel, "[INFO] %s%s", msg, formatFields(fields))
}

// Warn logs with a [WARN] prefix.
func (s *StdLoggerAdapter) Warn(msg string, fields ...Field) {
	s.printf(zerolog.WarnLevel, "[WARN] %s%s", msg, formatFields(fields))
}

// Error logs with an [ERROR] prefix and the error text.
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.printf(zerolog.ErrorLevel, "[ERROR] %s: %v%s", msg, err, formatFields(fields))
}

// Debug logs with a [DEBUG] prefix.
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	s.printf(zerolog.DebugLevel, "[DEBUG] %s%s", msg, formatFields(fields))
}

// Printf logs a formatted message at info level.
func (s *StdLoggerAdapter) Printf(format string, args ...any) {
	s.printf(zerolog.InfoLevel, format, args...)
}

// Println logs its arguments, space separated, at info level.
func (s *StdLoggerAdapter) Println(args ...any) {
	if s.level <= zerolog.InfoLevel {
		s.logger.Println(args...)
	}
}

func (s *StdLoggerAdapter) printf(lvl zerolog.Level, format string, args ...any) {
	if lvl < s.level {
		return
	}
	s.logger.Printf(format, args...)
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

func noColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// Nop is a Logger that discards everything.
type Nop struct{}

func (Nop) Info(string, ...Field)         {}
func (Nop) Warn(string, ...Field)         {}
func (Nop) Error(string, error, ...Field) {}
func (Nop) Debug(string, ...Field)        {}
func (Nop) Printf(string, ...any)         {}
func (Nop) Println(...any)                {}
