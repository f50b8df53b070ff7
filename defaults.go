package flagx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"go.eggybyte.com/flagx/core/errors"
	"go.eggybyte.com/flagx/core/value"
)

// LoadDefaultsFile reads a static defaults table from a YAML or JSON file,
// chosen by extension (.json is JSON, everything else parses as YAML).
// Scalar entries decode through the standard heuristic; nested documents
// become JSON values.
func LoadDefaultsFile(path string) (map[string]value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "defaults.load", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidArgument, "defaults.parse", err)
	}

	defaults := make(map[string]value.Value, len(raw))
	for k, v := range raw {
		defaults[k] = value.Decode(normalizeYAML(v))
	}
	return defaults, nil
}

// normalizeYAML converts yaml.v3's map[string]any trees so nested keys are
// strings regardless of source format. Non-map values pass through.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
