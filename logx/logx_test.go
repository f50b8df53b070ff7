// Package logx provides tests for the slog-based logger.
package logx

import (
	"log/slog"
	"strings"
	"testing"

	"go.eggybyte.com/flagx/core/log"
)

func newBufferedLogger(t *testing.T, opts ...Option) (log.Logger, *strings.Builder) {
	t.Helper()
	var buf strings.Builder
	all := append([]Option{WithWriter(&buf)}, opts...)
	return New(all...), &buf
}

func TestLogger_Info(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.Info("snapshot published", log.Int("keys", 12))

	got := buf.String()
	if !strings.Contains(got, "level=INFO") {
		t.Errorf("output missing level: %q", got)
	}
	if !strings.Contains(got, `msg="snapshot published"`) {
		t.Errorf("output missing message: %q", got)
	}
	if !strings.Contains(got, "keys=12") {
		t.Errorf("output missing field: %q", got)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(t, WithLevel(slog.LevelWarn))

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	got := buf.String()
	if strings.Contains(got, "dropped") {
		t.Errorf("records below the minimum level must be dropped: %q", got)
	}
	if !strings.Contains(got, `msg="kept"`) {
		t.Errorf("records at the minimum level must be kept: %q", got)
	}
}

func TestLogger_ErrorField(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.Error(errFixture("boom"), "refresh failed")

	got := buf.String()
	if !strings.Contains(got, "level=ERROR") {
		t.Errorf("output missing level: %q", got)
	}
	if !strings.Contains(got, `error="boom"`) {
		t.Errorf("output missing error field: %q", got)
	}
}

func TestLogger_WithAttachesFields(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.With(log.Str("component", "engine")).Info("ready")

	if !strings.Contains(buf.String(), `component="engine"`) {
		t.Errorf("With() fields missing: %q", buf.String())
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.Info("m", log.Str("zebra", "z"), log.Str("alpha", "a"))

	got := buf.String()
	if strings.Index(got, "alpha=") > strings.Index(got, "zebra=") {
		t.Errorf("fields should be sorted by key: %q", got)
	}
}

type errFixture string

func (e errFixture) Error() string { return string(e) }
