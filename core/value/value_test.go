// Package value provides tests for the typed configuration value model.
package value

import (
	"testing"
)

func TestValue_TypedAccessors(t *testing.T) {
	if got := Bool(true).BoolOr(false); got != true {
		t.Errorf("BoolOr() = %v, want true", got)
	}
	if got := Int(42).IntOr(0); got != 42 {
		t.Errorf("IntOr() = %d, want 42", got)
	}
	if got := Float(2.5).FloatOr(0); got != 2.5 {
		t.Errorf("FloatOr() = %g, want 2.5", got)
	}
	if got := Str("hello").StrOr(""); got != "hello" {
		t.Errorf("StrOr() = %q, want %q", got, "hello")
	}

	doc := map[string]any{"a": float64(1)}
	if got := JSON(doc).JSONOr(nil); got == nil {
		t.Error("JSONOr() should return the parsed document")
	}
}

func TestValue_AccessorMismatchFallsBack(t *testing.T) {
	v := Str("not a bool")

	if got := v.BoolOr(true); got != true {
		t.Error("BoolOr() on a string should return the fallback")
	}
	if got := v.IntOr(7); got != 7 {
		t.Error("IntOr() on a string should return the fallback")
	}
	if got := v.FloatOr(1.5); got != 1.5 {
		t.Error("FloatOr() on a string should return the fallback")
	}
	if got := v.JSONOr("fb"); got != "fb" {
		t.Error("JSONOr() on a string should return the fallback")
	}
	if got := Int(3).StrOr("fb"); got != "fb" {
		t.Error("StrOr() on an int should return the fallback")
	}
}

func TestValue_FloatOrWidensInt(t *testing.T) {
	if got := Int(10).FloatOr(0); got != 10.0 {
		t.Errorf("FloatOr() on an int = %g, want 10", got)
	}
}

func TestValue_Absent(t *testing.T) {
	v := Absent()

	if !v.IsAbsent() {
		t.Error("Absent() should report IsAbsent")
	}
	if v.Kind() != KindAbsent {
		t.Errorf("Kind() = %v, want KindAbsent", v.Kind())
	}
	if v.Raw() != nil {
		t.Error("Raw() of absent should be nil")
	}
	if got := v.BoolOr(true); got != true {
		t.Error("BoolOr() of absent should return the fallback")
	}

	var zero Value
	if !zero.IsAbsent() {
		t.Error("zero Value should be the absent sentinel")
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a    Value
		b    Value
		want bool
	}{
		{"equal bools", Bool(true), Bool(true), true},
		{"unequal bools", Bool(true), Bool(false), false},
		{"equal ints", Int(3), Int(3), true},
		{"unequal ints", Int(3), Int(4), false},
		{"kind mismatch", Int(3), Float(3), false},
		{"equal strings", Str("a"), Str("a"), true},
		{"absent equals absent", Absent(), Absent(), true},
		{
			"json by structure",
			JSON(map[string]any{"a": float64(1), "b": "x"}),
			JSON(map[string]any{"b": "x", "a": float64(1)}),
			true,
		},
		{
			"json structural difference",
			JSON(map[string]any{"a": float64(1)}),
			JSON(map[string]any{"a": float64(2)}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_JSONEqualIgnoresRawText(t *testing.T) {
	a := Decode(`{"a": 1}`)
	b := Decode(`{ "a" :1 }`)

	if !a.Equal(b) {
		t.Error("JSON values with equal structure should compare equal regardless of raw text")
	}
}

func TestValue_MarshalTextRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"bool", Bool(true)},
		{"int", Int(42)},
		{"float", Float(2.5)},
		{"integral float stays float", Float(12.0)},
		{"string", Str("plain text")},
		{"json", JSON(map[string]any{"a": float64(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := tt.v.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText() error = %v", err)
			}
			back := Decode(string(text))
			if !back.Equal(tt.v) {
				t.Errorf("Decode(%q) = %v (%v), want %v (%v)",
					text, back, back.Kind(), tt.v, tt.v.Kind())
			}
		})
	}
}

func TestValue_MarshalTextAbsentFails(t *testing.T) {
	if _, err := Absent().MarshalText(); err == nil {
		t.Error("MarshalText() of absent should fail")
	}
}

func TestResolved_Equal(t *testing.T) {
	a := Resolved{Value: Bool(true), Provenance: ProvenanceRemote}
	b := Resolved{Value: Bool(true), Provenance: ProvenanceRemote}
	c := Resolved{Value: Bool(true), Provenance: ProvenanceOverride}

	if !a.Equal(b) {
		t.Error("identical resolved entries should compare equal")
	}
	if a.Equal(c) {
		t.Error("a provenance change alone should compare unequal")
	}
}

func TestSnapshot_Get(t *testing.T) {
	snap := NewSnapshot(map[string]Resolved{
		"dark_mode": {Value: Bool(true), Provenance: ProvenanceRemote},
	})

	r := snap.Get("dark_mode")
	if !r.Value.BoolOr(false) {
		t.Error("Get() should return the stored value")
	}
	if r.Provenance != ProvenanceRemote {
		t.Errorf("Provenance = %q, want %q", r.Provenance, ProvenanceRemote)
	}

	missing := snap.Get("unknown")
	if !missing.Value.IsAbsent() {
		t.Error("Get() of a missing key should return the absent sentinel")
	}
	if missing.Provenance != ProvenanceNone {
		t.Errorf("missing Provenance = %q, want %q", missing.Provenance, ProvenanceNone)
	}
}

func TestSnapshot_NilSafe(t *testing.T) {
	var snap *Snapshot

	if !snap.Get("k").Value.IsAbsent() {
		t.Error("nil snapshot Get() should return absent")
	}
	if snap.Has("k") {
		t.Error("nil snapshot Has() should be false")
	}
	if snap.Len() != 0 {
		t.Error("nil snapshot Len() should be 0")
	}
	if snap.Keys() != nil {
		t.Error("nil snapshot Keys() should be nil")
	}
}

func TestSnapshot_CopiesEntries(t *testing.T) {
	entries := map[string]Resolved{
		"k": {Value: Int(1), Provenance: ProvenanceDefault},
	}
	snap := NewSnapshot(entries)

	entries["k"] = Resolved{Value: Int(2), Provenance: ProvenanceDefault}
	if snap.Get("k").Value.IntOr(0) != 1 {
		t.Error("mutating the source map must not affect the snapshot")
	}

	all := snap.All()
	all["k"] = Resolved{Value: Int(3), Provenance: ProvenanceDefault}
	if snap.Get("k").Value.IntOr(0) != 1 {
		t.Error("mutating All() output must not affect the snapshot")
	}
}
