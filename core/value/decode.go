package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Decode converts a raw value as delivered by a remote provider or a
// key-value store into a typed Value. Raw values are either already-typed
// primitives, which pass through, or strings, which are sniffed in a fixed
// order kept for compatibility with existing remote payloads:
//
//  1. leading '{' or '[' — JSON document; a parse failure degrades to a
//     verbatim string instead of failing
//  2. case-insensitive "true"/"false" — bool
//  3. integer (no fractional part, no exponent) — int
//  4. floating point — float
//  5. anything else — string, verbatim
//
// So "12" decodes as int, "12.0" as float and "12abc" as string. Decode is
// pure and never fails; the worst case is a string. Callers that need exact
// string semantics for numeric-looking keys should use a typed accessor
// with their own default.
func Decode(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Absent()
	case Value:
		return v
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case float32:
		return decodeFloat(float64(v))
	case float64:
		return decodeFloat(v)
	case json.Number:
		return decodeString(v.String())
	case map[string]any:
		return JSON(v)
	case []any:
		return JSON(v)
	case []byte:
		return decodeString(string(v))
	case string:
		return decodeString(v)
	default:
		// Unknown raw types degrade to their printed form.
		return Str(fmt.Sprintf("%v", v))
	}
}

func decodeString(s string) Value {
	if len(s) > 0 && (s[0] == '{' || s[0] == '[') {
		var doc any
		if err := json.Unmarshal([]byte(s), &doc); err == nil {
			return Value{kind: KindJSON, j: doc, s: s}
		}
		// Malformed documents fall through to the string branch.
		return Str(s)
	}
	if strings.EqualFold(s, "true") {
		return Bool(true)
	}
	if strings.EqualFold(s, "false") {
		return Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return Str(s)
}

// decodeFloat keeps typed float primitives as floats. JSON numbers from a
// remote document all arrive as float64, so integral floats narrow back to
// int to match what the string heuristic would have produced.
func decodeFloat(f float64) Value {
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Float(f)
}
