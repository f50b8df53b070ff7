// Package logx provides the default slog-based implementation of the
// core/log.Logger diagnostics interface.
//
// Overview:
//   - Responsibility: Structured logfmt logging with sorted, stable fields
//   - Key Types: Logger implementation, Options for configuration
//   - Concurrency Model: Loggers are safe for concurrent use
//   - Error Semantics: No errors returned; logging failures are dropped
//   - Performance Notes: Fields are sorted once per record for stable output
//
// Usage:
//
//	logger := logx.New(logx.WithLevel(slog.LevelDebug), logx.WithColor(true))
//	logger.Info("override set", log.Str("key", "dark_mode"))
package logx

import (
	"io"
	"log/slog"
	"os"

	"go.eggybyte.com/flagx/core/log"
	"go.eggybyte.com/flagx/logx/internal"
)

// Options configures the logger behavior.
type Options struct {
	Level            slog.Level // Minimum log level
	Color            bool       // Colorize the level field
	Writer           io.Writer  // Output writer (default: os.Stderr)
	DisableTimestamp bool       // Omit the time field
}

// Option configures logger behavior.
type Option func(*Options)

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(o *Options) {
		o.Level = level
	}
}

// WithColor enables colorization of the level field.
func WithColor(enabled bool) Option {
	return func(o *Options) {
		o.Color = enabled
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

// WithTimestamp enables the time field. Disabled by default because
// container runtimes already timestamp stderr.
func WithTimestamp(enabled bool) Option {
	return func(o *Options) {
		o.DisableTimestamp = !enabled
	}
}

// Logger implements core/log.Logger on top of the logfmt handler.
type Logger struct {
	handler *internal.Handler
	attrs   []slog.Attr
}

// New creates a Logger with the given options.
func New(opts ...Option) log.Logger {
	options := Options{
		Level:            slog.LevelInfo,
		Writer:           os.Stderr,
		DisableTimestamp: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Writer == nil {
		options.Writer = os.Stderr
	}

	return &Logger{
		handler: internal.NewHandler(internal.Options{
			Level:            options.Level,
			Color:            options.Color,
			DisableTimestamp: options.DisableTimestamp,
		}, options.Writer),
	}
}

// With returns a new Logger with the given key-value pairs attached.
func (l *Logger) With(kv ...any) log.Logger {
	attrs := append([]slog.Attr{}, l.attrs...)
	attrs = append(attrs, internal.KVToAttrs(kv)...)
	return &Logger{handler: l.handler, attrs: attrs}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, kv ...any) {
	l.write(slog.LevelDebug, msg, internal.KVToAttrs(kv))
}

// Info logs an informational message.
func (l *Logger) Info(msg string, kv ...any) {
	l.write(slog.LevelInfo, msg, internal.KVToAttrs(kv))
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, kv ...any) {
	l.write(slog.LevelWarn, msg, internal.KVToAttrs(kv))
}

// Error logs an error message. The error is rendered as an "error" field.
func (l *Logger) Error(err error, msg string, kv ...any) {
	attrs := internal.KVToAttrs(kv)
	if err != nil {
		attrs = append([]slog.Attr{slog.Any("error", err)}, attrs...)
	}
	l.write(slog.LevelError, msg, attrs)
}

func (l *Logger) write(level slog.Level, msg string, attrs []slog.Attr) {
	all := append([]slog.Attr{}, l.attrs...)
	all = append(all, attrs...)
	l.handler.LogRecord(level, msg, all)
}
