package internal

import (
	"context"
	"encoding/json"
	"strings"

	"go.eggybyte.com/flagx/core/errors"
	"go.eggybyte.com/flagx/core/value"
)

// DefaultOverridePrefix namespaces override entries inside the host
// key-value store, away from any application keys.
const DefaultOverridePrefix = "config_override_"

// overrideStore is a typed wrapper over the host key-value store. Every
// operation completes (or fails with a CodeStorage error) before the engine
// republishes a snapshot, so a subscriber never observes a change that a
// process restart would lose.
type overrideStore struct {
	kv     KeyValueStore
	prefix string
}

func newOverrideStore(kv KeyValueStore, prefix string) *overrideStore {
	if prefix == "" {
		prefix = DefaultOverridePrefix
	}
	return &overrideStore{kv: kv, prefix: prefix}
}

// storedOverride is the persisted envelope for one override entry. The
// variant is recorded explicitly: a string override whose text looks
// numeric or boolean must come back as a string after a process restart,
// which a bare heuristic re-decode would not guarantee.
type storedOverride struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func encodeOverride(v value.Value) (string, error) {
	if v.IsAbsent() {
		return "", errors.New(errors.CodeInvalidArgument, "cannot persist the absent sentinel")
	}
	payload, err := json.Marshal(v.Raw())
	if err != nil {
		return "", errors.Wrap(errors.CodeInvalidArgument, "override.encode", err)
	}
	data, err := json.Marshal(storedOverride{Kind: v.Kind().String(), Value: payload})
	if err != nil {
		return "", errors.Wrap(errors.CodeInvalidArgument, "override.encode", err)
	}
	return string(data), nil
}

// decodeOverride reconstructs a persisted override with its original
// variant. Entries written before the kind envelope fall back to the
// decoding heuristic.
func decodeOverride(raw string) value.Value {
	var stored storedOverride
	if err := json.Unmarshal([]byte(raw), &stored); err == nil && stored.Kind != "" {
		switch stored.Kind {
		case "bool":
			var b bool
			if json.Unmarshal(stored.Value, &b) == nil {
				return value.Bool(b)
			}
		case "int":
			var i int64
			if json.Unmarshal(stored.Value, &i) == nil {
				return value.Int(i)
			}
		case "float":
			var f float64
			if json.Unmarshal(stored.Value, &f) == nil {
				return value.Float(f)
			}
		case "string":
			var str string
			if json.Unmarshal(stored.Value, &str) == nil {
				return value.Str(str)
			}
		case "json":
			var doc any
			if json.Unmarshal(stored.Value, &doc) == nil {
				return value.JSON(doc)
			}
		}
	}
	return value.Decode(raw)
}

// Get returns the override for key, or the absent sentinel when none is set.
func (s *overrideStore) Get(ctx context.Context, key string) (value.Value, error) {
	raw, ok, err := s.kv.Get(ctx, s.prefix+key)
	if err != nil {
		return value.Absent(), errors.Wrap(errors.CodeStorage, "override.get", err)
	}
	if !ok {
		return value.Absent(), nil
	}
	return decodeOverride(raw), nil
}

// Set persists an override for key.
func (s *overrideStore) Set(ctx context.Context, key string, v value.Value) error {
	text, err := encodeOverride(v)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.prefix+key, text); err != nil {
		return errors.Wrap(errors.CodeStorage, "override.set", err)
	}
	return nil
}

// Remove deletes the override for key. Missing keys are not an error.
func (s *overrideStore) Remove(ctx context.Context, key string) error {
	if err := s.kv.Remove(ctx, s.prefix+key); err != nil {
		return errors.Wrap(errors.CodeStorage, "override.remove", err)
	}
	return nil
}

// Clear deletes every entry under the override prefix. Keys outside the
// prefix belong to the host application and are never touched.
func (s *overrideStore) Clear(ctx context.Context) error {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return errors.Wrap(errors.CodeStorage, "override.clear", err)
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, s.prefix) {
			continue
		}
		if err := s.kv.Remove(ctx, k); err != nil {
			return errors.Wrap(errors.CodeStorage, "override.clear", err)
		}
	}
	return nil
}

// ListAll returns every persisted override, keyed without the prefix.
func (s *overrideStore) ListAll(ctx context.Context) (map[string]value.Value, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "override.list", err)
	}

	out := make(map[string]value.Value)
	for _, k := range keys {
		if !strings.HasPrefix(k, s.prefix) {
			continue
		}
		raw, ok, err := s.kv.Get(ctx, k)
		if err != nil {
			return nil, errors.Wrap(errors.CodeStorage, "override.list", err)
		}
		if !ok {
			// Removed between Keys and Get; skip.
			continue
		}
		out[strings.TrimPrefix(k, s.prefix)] = decodeOverride(raw)
	}
	return out, nil
}
