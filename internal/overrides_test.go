package internal

import (
	"context"
	"fmt"
	"testing"

	"go.eggybyte.com/flagx/core/errors"
	"go.eggybyte.com/flagx/core/value"
)

func TestOverrideStore_SetGetRoundTrip(t *testing.T) {
	s := newOverrideStore(NewMemoryKVStore(), "")
	ctx := context.Background()

	tests := []struct {
		name string
		v    value.Value
	}{
		{"bool", value.Bool(true)},
		{"int", value.Int(42)},
		{"float", value.Float(2.5)},
		{"integral float", value.Float(3.0)},
		{"string", value.Str("hello")},
		{"numeric-looking string stays a string", value.Str("5551234")},
		{"boolean-looking string stays a string", value.Str("true")},
		{"json-looking string stays a string", value.Str(`{"a": 1}`)},
		{"json", value.JSON(map[string]any{"a": float64(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(ctx, "k", tt.v); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !got.Equal(tt.v) {
				t.Errorf("Get() = %v (%v), want %v (%v)", got, got.Kind(), tt.v, tt.v.Kind())
			}
		})
	}
}

func TestOverrideStore_VariantSurvivesReload(t *testing.T) {
	kv := NewMemoryKVStore()
	ctx := context.Background()

	writer := newOverrideStore(kv, "")
	if err := writer.Set(ctx, "support_phone", value.Str("5551234")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A fresh store over the same persistence, as after a process restart.
	reader := newOverrideStore(kv, "")
	all, err := reader.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	got, ok := all["support_phone"]
	if !ok {
		t.Fatal("ListAll() should include the persisted override")
	}
	if got.Kind() != value.KindString {
		t.Errorf("reloaded kind = %v, want string", got.Kind())
	}
	if got.StrOr("") != "5551234" {
		t.Errorf("reloaded value = %q, want %q", got.StrOr(""), "5551234")
	}
}

func TestOverrideStore_LegacyEntriesDecodeHeuristically(t *testing.T) {
	kv := NewMemoryKVStore()
	ctx := context.Background()

	// Entries written before the kind envelope are bare text.
	kv.Set(ctx, DefaultOverridePrefix+"dark_mode", "true")
	kv.Set(ctx, DefaultOverridePrefix+"rollout_pct", "25")

	s := newOverrideStore(kv, "")
	got, err := s.Get(ctx, "dark_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.BoolOr(false) {
		t.Errorf("dark_mode = %v, want true", got)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if all["rollout_pct"].IntOr(0) != 25 {
		t.Errorf("rollout_pct = %v, want 25", all["rollout_pct"])
	}
}

func TestOverrideStore_GetMissing(t *testing.T) {
	s := newOverrideStore(NewMemoryKVStore(), "")

	got, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.IsAbsent() {
		t.Error("Get() of a missing override should return the absent sentinel")
	}
}

func TestOverrideStore_SetAbsentFails(t *testing.T) {
	s := newOverrideStore(NewMemoryKVStore(), "")

	err := s.Set(context.Background(), "k", value.Absent())
	if !errors.IsCode(err, errors.CodeInvalidArgument) {
		t.Errorf("Set(absent) error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestOverrideStore_RemoveMissingIsNoError(t *testing.T) {
	s := newOverrideStore(NewMemoryKVStore(), "")

	if err := s.Remove(context.Background(), "missing"); err != nil {
		t.Errorf("Remove() of a missing key error = %v, want nil", err)
	}
}

func TestOverrideStore_PrefixIsolation(t *testing.T) {
	kv := NewMemoryKVStore()
	ctx := context.Background()
	kv.Set(ctx, "app_owned_key", "host data")

	s := newOverrideStore(kv, "")
	s.Set(ctx, "dark_mode", value.Bool(true))
	s.Set(ctx, "rollout_pct", value.Int(25))

	// Raw keys carry the reserved prefix.
	if _, ok, _ := kv.Get(ctx, DefaultOverridePrefix+"dark_mode"); !ok {
		t.Error("override should be stored under the reserved prefix")
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAll() returned %d entries, want 2", len(all))
	}
	if _, ok := all["app_owned_key"]; ok {
		t.Error("ListAll() must not include host application keys")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if v, ok, _ := kv.Get(ctx, "app_owned_key"); !ok || v != "host data" {
		t.Error("Clear() must not touch host application keys")
	}
	if all, _ := s.ListAll(ctx); len(all) != 0 {
		t.Errorf("ListAll() after Clear() returned %d entries, want 0", len(all))
	}
}

func TestOverrideStore_CustomPrefix(t *testing.T) {
	kv := NewMemoryKVStore()
	s := newOverrideStore(kv, "myapp_ov_")
	ctx := context.Background()

	s.Set(ctx, "k", value.Int(1))
	if _, ok, _ := kv.Get(ctx, "myapp_ov_k"); !ok {
		t.Error("custom prefix should namespace stored keys")
	}
}

func TestOverrideStore_StorageErrorsAreCoded(t *testing.T) {
	kv := newFailingKV()
	kv.keysErr = fmt.Errorf("broken")
	s := newOverrideStore(kv, "")

	if _, err := s.ListAll(context.Background()); !errors.IsCode(err, errors.CodeStorage) {
		t.Errorf("ListAll() error = %v, want STORAGE", err)
	}
	if err := s.Clear(context.Background()); !errors.IsCode(err, errors.CodeStorage) {
		t.Errorf("Clear() error = %v, want STORAGE", err)
	}
}
