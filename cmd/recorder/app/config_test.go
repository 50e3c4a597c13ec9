package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recorder.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
inputs:
  - name: front
    path: /data/front.yaml
    enabled: true
    imuOrientation: yXZ
  - path: /data/rear.yaml
storage:
  dataDirectory: /data/out
`)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if c.Settings.Level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", c.Settings.Level)
	}
	if c.Storage.MaxBatchSize != defaultMaxBatchSize {
		t.Errorf("Expected default batch size %d, got %d", defaultMaxBatchSize, c.Storage.MaxBatchSize)
	}
	if len(c.Inputs) != 2 {
		t.Fatalf("Expected 2 inputs, got %d", len(c.Inputs))
	}
	if o := c.Inputs[0].IMUOrientation; o == nil || *o != "yXZ" {
		t.Errorf("Expected orientation yXZ, got %v", o)
	}
	if c.Inputs[1].Name != "/data/rear.yaml" {
		t.Errorf("Expected name to default to path, got %s", c.Inputs[1].Name)
	}
	if c.Inputs[1].Enabled {
		t.Error("Expected second input to be disabled")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"unknown field", "settings:\n  verbose: true\n"},
		{"invalid log level", "settings:\n  logLevel: loud\n"},
		{"negative batch size", "storage:\n  maxBatchSize: -1\n"},
		{"missing path", "inputs:\n  - name: a\n"},
		{"duplicate name", "inputs:\n  - {name: a, path: x}\n  - {name: a, path: y}\n"},
		{"not yaml", "\t- ["},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
