// Package log defines the diagnostics interface injected into the flagx
// engine and its adapters.
//
// Overview:
//   - Responsibility: Define a stable structured logging interface for flagx
//   - Key Types: Logger interface with key-value logging, field helpers
//   - Concurrency Model: Logger implementations must be safe for concurrent use
//   - Error Semantics: Error method accepts the error as first parameter
//   - Performance Notes: Field helpers avoid interface churn on hot paths
//
// Usage:
//
//	logger.Info("snapshot published", log.Int("keys", 12), log.Str("trigger", "refresh"))
package log

import "time"

// Logger is the structured logging interface consumed by the engine.
// Remote fetch failures at startup are absorbed and reported only through
// this interface, so implementations must be safe for concurrent use.
type Logger interface {
	// With returns a new Logger with the given key-value pairs attached
	// to every subsequent record.
	With(kv ...any) Logger

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, kv ...any)

	// Info logs an informational message with optional key-value pairs.
	Info(msg string, kv ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, kv ...any)

	// Error logs an error with a message and optional key-value pairs.
	Error(err error, msg string, kv ...any)
}

// Str creates a string key-value pair.
func Str(k, v string) any {
	return []any{k, v}
}

// Int creates an integer key-value pair.
func Int(k string, v int) any {
	return []any{k, v}
}

// Bool creates a boolean key-value pair.
func Bool(k string, v bool) any {
	return []any{k, v}
}

// Dur creates a duration key-value pair.
func Dur(k string, v time.Duration) any {
	return []any{k, v}
}

// Discard is a Logger that drops every record. It is the default when no
// diagnostics collaborator is injected.
var Discard Logger = discard{}

type discard struct{}

func (discard) With(kv ...any) Logger                  { return Discard }
func (discard) Debug(msg string, kv ...any)            {}
func (discard) Info(msg string, kv ...any)             {}
func (discard) Warn(msg string, kv ...any)             {}
func (discard) Error(err error, msg string, kv ...any) {}
