// Package errors provides tests for the coded error taxonomy.
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeUnavailable, "remote fetch failed")

	if err.Error() != "UNAVAILABLE: remote fetch failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsCode(err, CodeUnavailable) {
		t.Error("IsCode() should match the constructed code")
	}
	if IsCode(err, CodeStorage) {
		t.Error("IsCode() should not match a different code")
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeStorage, "override.set", cause)

	if CodeOf(err) != CodeStorage {
		t.Errorf("CodeOf() = %q, want %q", CodeOf(err), CodeStorage)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if err.Error() != "STORAGE: override.set: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapf(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrapf(CodeInternal, "engine.publish", cause, "key %q", "dark_mode")

	if CodeOf(err) != CodeInternal {
		t.Errorf("CodeOf() = %q, want %q", CodeOf(err), CodeInternal)
	}
	if err.Error() != `INTERNAL: key "dark_mode": boom` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCodeOf_UncodedError(t *testing.T) {
	if CodeOf(fmt.Errorf("plain")) != "" {
		t.Error("CodeOf() of an uncoded error should be empty")
	}
	if CodeOf(nil) != "" {
		t.Error("CodeOf(nil) should be empty")
	}
}

func TestCodeOf_NestedChain(t *testing.T) {
	inner := New(CodeUnavailable, "backend down")
	outer := fmt.Errorf("refresh: %w", inner)

	if CodeOf(outer) != CodeUnavailable {
		t.Error("CodeOf() should follow wrapped chains")
	}
}

func TestAs(t *testing.T) {
	err := Wrap(CodeNotFound, "override.get", fmt.Errorf("missing"))

	var e *E
	if !As(err, &e) {
		t.Fatal("As() should extract *E")
	}
	if e.Op != "override.get" {
		t.Errorf("Op = %q, want %q", e.Op, "override.get")
	}
}
