package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Grid.Rows != 6 || cfg.Grid.Cols != 6 {
		t.Errorf("Expected 6x6 grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Focus.Dwell != time.Second {
		t.Errorf("Expected 1s dwell, got %v", cfg.Focus.Dwell)
	}
	if cfg.Session.SaveKey != "s" || cfg.Session.CancelKey != "esc" {
		t.Errorf("Expected s/esc keys, got %s/%s", cfg.Session.SaveKey, cfg.Session.CancelKey)
	}
	if cfg.Session.Validation != "off" {
		t.Errorf("Expected validation off by default, got %s", cfg.Session.Validation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing stimuli directory",
			mutate:  func(c *Config) { c.Stimuli.Directory = "" },
			wantErr: true,
			errMsg:  "stimuli directory must be set",
		},
		{
			name:    "zero rows",
			mutate:  func(c *Config) { c.Grid.Rows = 0 },
			wantErr: true,
			errMsg:  "invalid grid",
		},
		{
			name:    "enlarged smaller than image",
			mutate:  func(c *Config) { c.Focus.EnlargedWidth = 4 },
			wantErr: true,
			errMsg:  "enlarged size",
		},
		{
			name:    "invalid pointer button",
			mutate:  func(c *Config) { c.Focus.PointerButton = "wheel" },
			wantErr: true,
			errMsg:  "invalid pointer button: wheel (must be one of: left, middle, right)",
		},
		{
			name:    "same save and cancel key",
			mutate:  func(c *Config) { c.Session.CancelKey = "s" },
			wantErr: true,
			errMsg:  "save_key and cancel_key must differ",
		},
		{
			name:    "zero frame interval",
			mutate:  func(c *Config) { c.Session.FrameInterval = 0 },
			wantErr: true,
			errMsg:  "frame_interval must be greater than 0",
		},
		{
			name:    "invalid validation mode",
			mutate:  func(c *Config) { c.Session.Validation = "strict" },
			wantErr: true,
			errMsg:  "invalid validation mode: strict (must be one of: off, warn, enforce)",
		},
		{
			name:    "task tag with separator",
			mutate:  func(c *Config) { c.Output.TaskTag = "a/b" },
			wantErr: true,
			errMsg:  "invalid task tag",
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.Display.Theme = "neon" },
			wantErr: true,
			errMsg:  "invalid theme: neon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLayoutFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Rows = 3
	cfg.Grid.SpacingX = 4

	layout := cfg.Layout()
	if layout.Rows != 3 || layout.Cols != 6 {
		t.Errorf("Expected 3x6 layout, got %dx%d", layout.Rows, layout.Cols)
	}
	if layout.Spacing.W != 4 {
		t.Errorf("Expected horizontal spacing 4, got %d", layout.Spacing.W)
	}
	if layout.ImageSize.W != cfg.Grid.ImageWidth || layout.FieldSize.H != cfg.Grid.FieldHeight {
		t.Errorf("Unexpected sizes %+v %+v", layout.ImageSize, layout.FieldSize)
	}
}

func TestInstruction(t *testing.T) {
	cfg := DefaultConfig()
	want := "Rank each painting from 1 (highest) to 36 (lowest). Press 's' to save and exit."
	if got := cfg.Instruction(); got != want {
		t.Errorf("Instruction() = %q, want %q", got, want)
	}

	cfg.Session.Instruction = "Rank the faces."
	if got := cfg.Instruction(); got != "Rank the faces." {
		t.Errorf("Expected configured instruction, got %q", got)
	}
}

func TestConfigMerging(t *testing.T) {
	dst := DefaultConfig()

	src := &Config{
		Grid:    GridConfig{Rows: 4},
		Focus:   FocusConfig{Dwell: 2 * time.Second},
		Session: SessionConfig{Validation: "warn"},
		Output:  OutputConfig{Directory: "results", Verbose: true},
	}

	mergeConfigs(dst, src)

	if dst.Grid.Rows != 4 {
		t.Errorf("Expected rows 4, got %d", dst.Grid.Rows)
	}
	if dst.Focus.Dwell != 2*time.Second {
		t.Errorf("Expected dwell 2s, got %v", dst.Focus.Dwell)
	}
	if dst.Session.Validation != "warn" {
		t.Errorf("Expected validation warn, got %s", dst.Session.Validation)
	}
	if dst.Output.Directory != "results" || !dst.Output.Verbose {
		t.Errorf("Unexpected output config %+v", dst.Output)
	}

	// Unset values in source don't override destination
	if dst.Grid.Cols != 6 {
		t.Errorf("Expected cols to remain 6, got %d", dst.Grid.Cols)
	}
	if dst.Session.SaveKey != "s" {
		t.Errorf("Expected save key to remain s, got %s", dst.Session.SaveKey)
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("./config.yaml"); got != "./config.yaml" {
		t.Errorf("Expected relative path unchanged, got %s", got)
	}
	if got := expandPath("/etc/rankgrid/config.yaml"); got != "/etc/rankgrid/config.yaml" {
		t.Errorf("Expected absolute path unchanged, got %s", got)
	}
	if got := expandPath("~/.config/rankgrid/config.yaml"); got == "~/.config/rankgrid/config.yaml" {
		t.Errorf("Expected path to be expanded, but got same path")
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 config paths, got %d", len(paths))
	}
	if paths[0] != "./.rankgrid.yaml" {
		t.Errorf("Expected project config first, got %s", paths[0])
	}
	if paths[2] != "/etc/rankgrid/config.yaml" {
		t.Errorf("Expected system config last, got %s", paths[2])
	}
}
