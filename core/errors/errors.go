// Package errors provides coded errors for the flagx failure taxonomy.
//
// Overview:
//   - Responsibility: Classify failures from remote providers and stores
//   - Key Types: Code for classification, E for structured wrapping
//   - Concurrency Model: All functions are safe for concurrent use
//   - Error Semantics: Compatible with standard library error wrapping
//   - Performance Notes: Minimal allocations on construction
//
// Usage:
//
//	err := errors.New(errors.CodeUnavailable, "remote fetch failed")
//	wrapped := errors.Wrap(errors.CodeStorage, "override.set", cause)
//	if errors.IsCode(err, errors.CodeUnavailable) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error.
type Code string

// Failure classes. CodeUnavailable covers remote provider failures during
// initialize/refresh; it is never fatal and always falls back to the last
// known, override or default values. CodeStorage covers override store
// read/write failures, surfaced to the mutating caller without corrupting
// the published snapshot.
const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeStorage         Code = "STORAGE"
	CodeInternal        Code = "INTERNAL"
)

// E is a structured error with code, failing operation and message.
type E struct {
	Code Code   // Error classification code
	Op   string // Operation that failed, e.g. "remote.refresh"
	Err  error  // Underlying error (may be nil)
	Msg  string // Human-readable message
}

// Error implements the error interface.
func (e *E) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
}

// Unwrap returns the underlying error.
func (e *E) Unwrap() error {
	return e.Err
}

// New creates a coded error with a message.
func New(code Code, msg string) error {
	return &E{Code: code, Msg: msg}
}

// Wrap creates a coded error around an existing one. The operation name
// identifies where the failure occurred.
func Wrap(code Code, op string, err error) error {
	return &E{Code: code, Op: op, Err: err}
}

// Wrapf creates a coded error around an existing one with a formatted message.
func Wrapf(code Code, op string, err error, format string, args ...any) error {
	return &E{Code: code, Op: op, Err: err, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the code from an error, or "" when it carries none.
func CodeOf(err error) Code {
	var e *E
	if err != nil && errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Is reports whether err matches target, following wrapped chains.
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
