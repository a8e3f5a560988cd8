package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func testLoader(env map[string]string) *Loader {
	l := NewLoader()
	l.configPaths = nil
	l.getenv = func(key string) string { return env[key] }
	l.warn = func(string, ...interface{}) {}
	return l
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := testLoader(nil).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Output.TaskTag != "art_ranking" {
		t.Errorf("Expected default task tag art_ranking, got %s", cfg.Output.TaskTag)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, "test-config.yaml", `version: "1.0"
stimuli:
  directory: paintings
  extensions: [".jpg", ".png"]
  seed: 99
grid:
  rows: 4
  cols: 5
focus:
  dwell: 1500ms
  pointer_button: right
session:
  validation: enforce
output:
  verbose: true
`)

	cfg, err := testLoader(nil).LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Stimuli.Directory != "paintings" || len(cfg.Stimuli.Extensions) != 2 || cfg.Stimuli.Seed != 99 {
		t.Errorf("Unexpected stimuli config %+v", cfg.Stimuli)
	}
	if cfg.Grid.Rows != 4 || cfg.Grid.Cols != 5 {
		t.Errorf("Expected 4x5 grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Focus.Dwell != 1500*time.Millisecond {
		t.Errorf("Expected dwell 1.5s, got %v", cfg.Focus.Dwell)
	}
	if cfg.Focus.PointerButton != "right" {
		t.Errorf("Expected right button, got %s", cfg.Focus.PointerButton)
	}
	if cfg.Session.Validation != "enforce" {
		t.Errorf("Expected enforce validation, got %s", cfg.Session.Validation)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	// Untouched sections keep defaults
	if cfg.Grid.ImageWidth != 12 {
		t.Errorf("Expected default image width 12, got %d", cfg.Grid.ImageWidth)
	}
}

func TestLoadConfigSearchPathsPriority(t *testing.T) {
	low := writeConfig(t, "system.yaml", "grid:\n  rows: 3\n  cols: 3\n")
	high := writeConfig(t, "project.yaml", "grid:\n  rows: 2\n")

	l := testLoader(nil)
	l.configPaths = []string{high, low}

	cfg, err := l.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Grid.Rows != 2 {
		t.Errorf("Expected project rows 2 to win, got %d", cfg.Grid.Rows)
	}
	if cfg.Grid.Cols != 3 {
		t.Errorf("Expected system cols 3 to apply, got %d", cfg.Grid.Cols)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid-config.yaml", `version: "1.0"
grid:
  rows: "six
`)

	if _, err := testLoader(nil).LoadConfig(path); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "bad.yaml", "focus:\n  pointer_button: wheel\n")

	_, err := testLoader(nil).LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"config.yaml", false},
		{"dir/config.yml", false},
		{"../config.yaml", true},
		{"config.json", true},
	}

	for _, tt := range tests {
		err := validateConfigPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateConfigPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"RANKGRID_GRID_ROWS":          "5",
		"RANKGRID_FOCUS_DWELL":        "250ms",
		"RANKGRID_OUTPUT_VERBOSE":     "true",
		"RANKGRID_STIMULI_SEED":       "1234",
		"RANKGRID_STIMULI_EXTENSIONS": ".jpg, .png ,.webp",
		"RANKGRID_DISPLAY_THEME":      "minimal",
	}

	cfg := DefaultConfig()
	if err := testLoader(env).applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Grid.Rows != 5 {
		t.Errorf("Expected rows 5, got %d", cfg.Grid.Rows)
	}
	if cfg.Focus.Dwell != 250*time.Millisecond {
		t.Errorf("Expected dwell 250ms, got %v", cfg.Focus.Dwell)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Stimuli.Seed != 1234 {
		t.Errorf("Expected seed 1234, got %d", cfg.Stimuli.Seed)
	}
	expected := []string{".jpg", ".png", ".webp"}
	if len(cfg.Stimuli.Extensions) != len(expected) {
		t.Fatalf("Expected %d extensions, got %v", len(expected), cfg.Stimuli.Extensions)
	}
	for i, ext := range expected {
		if cfg.Stimuli.Extensions[i] != ext {
			t.Errorf("Expected extension %s, got %s", ext, cfg.Stimuli.Extensions[i])
		}
	}
	if cfg.Display.Theme != "minimal" {
		t.Errorf("Expected theme minimal, got %s", cfg.Display.Theme)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "RANKGRID_GRID_ROWS", "not-a-number"},
		{"invalid bool", "RANKGRID_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "RANKGRID_FOCUS_DWELL", "not-a-duration"},
		{"invalid seed", "RANKGRID_STIMULI_SEED", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := testLoader(map[string]string{tt.envVar: tt.value}).applyEnvOverrides(cfg)
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestSampleConfigsParse(t *testing.T) {
	for name, sample := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			var cfg Config
			if err := yaml.Unmarshal([]byte(sample), &cfg); err != nil {
				t.Fatalf("Sample config does not parse: %v", err)
			}
			merged := DefaultConfig()
			mergeConfigs(merged, &cfg)
			if err := merged.Validate(); err != nil {
				t.Errorf("Sample config is invalid: %v", err)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	if err := parseDuration("30s", &duration); err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error parsing invalid duration")
	}
}
