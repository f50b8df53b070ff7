package flagx_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.eggybyte.com/flagx"
	"go.eggybyte.com/flagx/core/value"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadDefaultsFile_YAML(t *testing.T) {
	path := writeTempFile(t, "defaults.yaml", `
dark_mode: false
timeout_ms: 250
ratio: 0.5
banner: hello
limits:
  max: 10
`)

	defaults, err := flagx.LoadDefaultsFile(path)
	if err != nil {
		t.Fatalf("LoadDefaultsFile() error = %v", err)
	}

	if got := defaults["dark_mode"]; got.BoolOr(true) {
		t.Errorf("dark_mode = %v, want false", got)
	}
	if got := defaults["timeout_ms"]; got.IntOr(0) != 250 {
		t.Errorf("timeout_ms = %v, want 250", got)
	}
	if got := defaults["ratio"]; got.FloatOr(0) != 0.5 {
		t.Errorf("ratio = %v, want 0.5", got)
	}
	if got := defaults["banner"]; got.StrOr("") != "hello" {
		t.Errorf("banner = %v, want hello", got)
	}
	if got := defaults["limits"]; got.Kind() != value.KindJSON {
		t.Errorf("limits kind = %v, want json", got.Kind())
	}
}

func TestLoadDefaultsFile_JSON(t *testing.T) {
	path := writeTempFile(t, "defaults.json", `{"dark_mode": true, "retries": 3}`)

	defaults, err := flagx.LoadDefaultsFile(path)
	if err != nil {
		t.Fatalf("LoadDefaultsFile() error = %v", err)
	}
	if !defaults["dark_mode"].BoolOr(false) {
		t.Error("dark_mode should decode as true")
	}
	if defaults["retries"].IntOr(0) != 3 {
		t.Errorf("retries = %v, want 3", defaults["retries"])
	}
}

func TestLoadDefaultsFile_Missing(t *testing.T) {
	_, err := flagx.LoadDefaultsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !flagx.IsStorage(err) {
		t.Errorf("LoadDefaultsFile() error = %v, want storage", err)
	}
}

func TestLoadDefaultsFile_Malformed(t *testing.T) {
	path := writeTempFile(t, "bad.json", `{not json`)
	if _, err := flagx.LoadDefaultsFile(path); err == nil {
		t.Error("LoadDefaultsFile() should reject malformed input")
	}
}
