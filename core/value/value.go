// Package value defines the typed configuration value model shared by all
// flagx components.
//
// Overview:
//   - Responsibility: Represent one configuration value as a tagged union
//   - Key Types: Value union over bool/int/float/string/JSON, Kind, Provenance
//   - Concurrency Model: Values are immutable after construction
//   - Error Semantics: Typed accessors degrade to a caller default, never fail
//   - Performance Notes: Values are small structs, safe to copy and compare
package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind identifies which variant of the union a Value holds.
type Kind uint8

// Value variants. Exactly one is active per Value.
const (
	KindAbsent Kind = iota // no value resolved and no default registered
	KindBool
	KindInt
	KindFloat
	KindString
	KindJSON
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindJSON:
		return "json"
	default:
		return "absent"
	}
}

// Provenance records which layer produced a resolved value.
type Provenance string

// Resolution layers, in descending precedence.
const (
	ProvenanceOverride Provenance = "override"
	ProvenanceRemote   Provenance = "remote"
	ProvenanceDefault  Provenance = "default"
	ProvenanceNone     Provenance = "none" // attached to the absent sentinel
)

// Value is a tagged union over the five configuration value variants.
// The zero Value is the absent sentinel.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string // string payload, or raw text for JSON values
	j    any    // parsed JSON document
}

// Absent returns the sentinel for "no value and no default".
func Absent() Value {
	return Value{}
}

// Bool wraps a boolean.
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// Int wraps an integer.
func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// Float wraps a floating point number.
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Str wraps a string verbatim.
func Str(v string) Value {
	return Value{kind: KindString, s: v}
}

// JSON wraps a parsed structured document (map[string]any or []any).
func JSON(doc any) Value {
	raw, err := json.Marshal(doc)
	if err != nil {
		// Unmarshalable documents keep an empty raw form; the parsed
		// payload remains authoritative for comparison and access.
		raw = nil
	}
	return Value{kind: KindJSON, j: doc, s: string(raw)}
}

// Kind returns the active variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether v is the absent sentinel.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// BoolOr returns the boolean payload, or def if v is not a boolean.
func (v Value) BoolOr(def bool) bool {
	if v.kind != KindBool {
		return def
	}
	return v.b
}

// IntOr returns the integer payload, or def if v is not an integer.
func (v Value) IntOr(def int64) int64 {
	if v.kind != KindInt {
		return def
	}
	return v.i
}

// FloatOr returns the float payload, or def if v is not a float.
// Integers widen to float64 so numeric remote values stay usable.
func (v Value) FloatOr(def float64) float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	default:
		return def
	}
}

// StrOr returns the string payload, or def if v is not a string.
func (v Value) StrOr(def string) string {
	if v.kind != KindString {
		return def
	}
	return v.s
}

// JSONOr returns the parsed document payload, or def if v is not JSON.
func (v Value) JSONOr(def any) any {
	if v.kind != KindJSON {
		return def
	}
	return v.j
}

// Raw returns the native Go payload of the active variant.
// The absent sentinel returns nil.
func (v Value) Raw() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindJSON:
		return v.j
	default:
		return nil
	}
}

// Equal reports whether two values hold the same variant and payload.
// JSON documents compare by parsed structure, not raw text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindJSON:
		return reflect.DeepEqual(v.j, o.j)
	default:
		return true
	}
}

// String renders the value for logs and CLI output.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindJSON:
		return v.s
	default:
		return "<absent>"
	}
}

// MarshalText encodes the value to its canonical text form. For non-string
// variants the encoding round-trips through Decode: floats always carry a
// decimal point or exponent so an integral float does not come back as an
// int. Strings are emitted verbatim, so a numeric-looking string does not
// survive a Decode round trip; callers needing a variant-preserving
// encoding must record the Kind alongside the text.
func (v Value) MarshalText() ([]byte, error) {
	switch v.kind {
	case KindAbsent:
		return nil, fmt.Errorf("cannot marshal the absent sentinel")
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return []byte(s), nil
	default:
		return []byte(v.String()), nil
	}
}

// Resolved pairs a value with the layer that produced it.
type Resolved struct {
	Value      Value
	Provenance Provenance
}

// Equal reports whether value and provenance both match.
func (r Resolved) Equal(o Resolved) bool {
	return r.Provenance == o.Provenance && r.Value.Equal(o.Value)
}

// Snapshot is one immutable, internally consistent view of all resolved
// configuration. Consumers must treat it as read-only; the engine never
// mutates a snapshot after publication, so two snapshots can be compared
// by pointer to detect "nothing changed".
type Snapshot struct {
	entries map[string]Resolved
}

// NewSnapshot builds a snapshot from resolved entries. The map is copied.
func NewSnapshot(entries map[string]Resolved) *Snapshot {
	copied := make(map[string]Resolved, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &Snapshot{entries: copied}
}

// Get returns the resolved entry for key. Missing keys yield the absent
// sentinel with ProvenanceNone.
func (s *Snapshot) Get(key string) Resolved {
	if s == nil {
		return Resolved{Value: Absent(), Provenance: ProvenanceNone}
	}
	if r, ok := s.entries[key]; ok {
		return r
	}
	return Resolved{Value: Absent(), Provenance: ProvenanceNone}
}

// Has reports whether key resolved to a concrete value in this snapshot.
func (s *Snapshot) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of resolved keys.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Keys returns all resolved keys in unspecified order.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// All returns a copy of the resolved entries.
func (s *Snapshot) All() map[string]Resolved {
	if s == nil {
		return map[string]Resolved{}
	}
	copied := make(map[string]Resolved, len(s.entries))
	for k, v := range s.entries {
		copied[k] = v
	}
	return copied
}
