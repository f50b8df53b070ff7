package internal

import (
	"testing"
	"time"

	"go.eggybyte.com/flagx/core/value"
)

func TestBindToStruct_BasicTypes(t *testing.T) {
	snap := value.NewSnapshot(map[string]value.Resolved{
		"dark_mode":   {Value: value.Bool(true), Provenance: value.ProvenanceRemote},
		"rollout_pct": {Value: value.Int(25), Provenance: value.ProvenanceOverride},
		"ratio":       {Value: value.Float(0.5), Provenance: value.ProvenanceDefault},
		"banner":      {Value: value.Str("hello"), Provenance: value.ProvenanceRemote},
	})

	var cfg struct {
		DarkMode   bool    `flag:"dark_mode"`
		RolloutPct int     `flag:"rollout_pct"`
		Ratio      float64 `flag:"ratio"`
		Banner     string  `flag:"banner"`
	}

	if err := BindToStruct(snap, &cfg); err != nil {
		t.Fatalf("BindToStruct() error = %v", err)
	}
	if !cfg.DarkMode || cfg.RolloutPct != 25 || cfg.Ratio != 0.5 || cfg.Banner != "hello" {
		t.Errorf("bound config = %+v", cfg)
	}
}

func TestBindToStruct_DefaultTag(t *testing.T) {
	snap := value.NewSnapshot(nil)

	var cfg struct {
		Timeout  time.Duration `flag:"timeout" default:"5s"`
		Retries  int           `flag:"retries" default:"3"`
		Untagged string        `flag:"missing"`
	}

	if err := BindToStruct(snap, &cfg); err != nil {
		t.Fatalf("BindToStruct() error = %v", err)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Retries != 3 {
		t.Errorf("Retries = %d, want 3", cfg.Retries)
	}
	if cfg.Untagged != "" {
		t.Errorf("field without a default should keep its zero value, got %q", cfg.Untagged)
	}
}

func TestBindToStruct_NestedStruct(t *testing.T) {
	snap := value.NewSnapshot(map[string]value.Resolved{
		"inner_flag": {Value: value.Str("set"), Provenance: value.ProvenanceRemote},
	})

	var cfg struct {
		Section struct {
			InnerFlag string `flag:"inner_flag"`
		}
	}

	if err := BindToStruct(snap, &cfg); err != nil {
		t.Fatalf("BindToStruct() error = %v", err)
	}
	if cfg.Section.InnerFlag != "set" {
		t.Errorf("InnerFlag = %q, want %q", cfg.Section.InnerFlag, "set")
	}
}

func TestBindToStruct_JSONFields(t *testing.T) {
	snap := value.NewSnapshot(map[string]value.Resolved{
		"limits": {
			Value:      value.JSON(map[string]any{"max": float64(10), "name": "qps"}),
			Provenance: value.ProvenanceRemote,
		},
		"tags": {
			Value:      value.JSON([]any{"a", "b"}),
			Provenance: value.ProvenanceRemote,
		},
	})

	var cfg struct {
		Limits struct {
			Max  int    `json:"max"`
			Name string `json:"name"`
		} `flag:"limits"`
		Tags []string `flag:"tags"`
	}

	if err := BindToStruct(snap, &cfg); err != nil {
		t.Fatalf("BindToStruct() error = %v", err)
	}
	if cfg.Limits.Max != 10 || cfg.Limits.Name != "qps" {
		t.Errorf("Limits = %+v", cfg.Limits)
	}
	if len(cfg.Tags) != 2 || cfg.Tags[0] != "a" {
		t.Errorf("Tags = %v", cfg.Tags)
	}
}

func TestBindToStruct_NotAPointer(t *testing.T) {
	var cfg struct{}
	if err := BindToStruct(value.NewSnapshot(nil), cfg); err == nil {
		t.Error("BindToStruct() should reject a non-pointer target")
	}
}

func TestBindToStruct_TypeMismatch(t *testing.T) {
	snap := value.NewSnapshot(map[string]value.Resolved{
		"count": {Value: value.Str("not a number"), Provenance: value.ProvenanceRemote},
	})

	var cfg struct {
		Count int `flag:"count"`
	}

	if err := BindToStruct(snap, &cfg); err == nil {
		t.Error("BindToStruct() should surface unparseable values")
	}
}
