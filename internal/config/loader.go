package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.rankgrid.yaml",               // Project-specific config (highest priority)
	"~/.config/rankgrid/config.yaml", // User config
	"/etc/rankgrid/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.rankgrid.yaml
// 4. ~/.config/rankgrid/config.yaml
// 5. /etc/rankgrid/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies RANKGRID_* environment variables to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Stimuli
		"RANKGRID_STIMULI_DIRECTORY": func(v string) error { config.Stimuli.Directory = v; return nil },
		"RANKGRID_STIMULI_SEED":      func(v string) error { return parseInt64(v, &config.Stimuli.Seed) },

		// Grid
		"RANKGRID_GRID_ROWS":         func(v string) error { return parseInt(v, &config.Grid.Rows) },
		"RANKGRID_GRID_COLS":         func(v string) error { return parseInt(v, &config.Grid.Cols) },
		"RANKGRID_GRID_IMAGE_WIDTH":  func(v string) error { return parseInt(v, &config.Grid.ImageWidth) },
		"RANKGRID_GRID_IMAGE_HEIGHT": func(v string) error { return parseInt(v, &config.Grid.ImageHeight) },

		// Focus
		"RANKGRID_FOCUS_DWELL":          func(v string) error { return parseDuration(v, &config.Focus.Dwell) },
		"RANKGRID_FOCUS_POINTER_BUTTON": func(v string) error { config.Focus.PointerButton = v; return nil },

		// Session
		"RANKGRID_SESSION_SAVE_KEY":       func(v string) error { config.Session.SaveKey = v; return nil },
		"RANKGRID_SESSION_CANCEL_KEY":     func(v string) error { config.Session.CancelKey = v; return nil },
		"RANKGRID_SESSION_FRAME_INTERVAL": func(v string) error { return parseDuration(v, &config.Session.FrameInterval) },
		"RANKGRID_SESSION_VALIDATION":     func(v string) error { config.Session.Validation = v; return nil },

		// Output
		"RANKGRID_OUTPUT_DIRECTORY": func(v string) error { config.Output.Directory = v; return nil },
		"RANKGRID_OUTPUT_TASK_TAG":  func(v string) error { config.Output.TaskTag = v; return nil },
		"RANKGRID_OUTPUT_VERBOSE":   func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"RANKGRID_OUTPUT_LOG_FILE":  func(v string) error { config.Output.LogFile = v; return nil },

		// Display
		"RANKGRID_DISPLAY_THEME": func(v string) error { config.Display.Theme = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated list
	if exts := l.getenv("RANKGRID_STIMULI_EXTENSIONS"); exts != "" {
		config.Stimuli.Extensions = strings.Split(exts, ",")
		for i, ext := range config.Stimuli.Extensions {
			config.Stimuli.Extensions[i] = strings.TrimSpace(ext)
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range GetConfigPaths() {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeStimuliConfig(&dst.Stimuli, &src.Stimuli)
	mergeGridConfig(&dst.Grid, &src.Grid)
	mergeFocusConfig(&dst.Focus, &src.Focus)
	mergeSessionConfig(&dst.Session, &src.Session)
	mergeOutputConfig(&dst.Output, &src.Output)
	if src.Display.Theme != "" {
		dst.Display.Theme = src.Display.Theme
	}
}

func mergeStimuliConfig(dst, src *StimuliConfig) {
	if src.Directory != "" {
		dst.Directory = src.Directory
	}
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
}

func mergeGridConfig(dst, src *GridConfig) {
	mergeInt(&dst.Rows, src.Rows)
	mergeInt(&dst.Cols, src.Cols)
	mergeInt(&dst.OriginX, src.OriginX)
	mergeInt(&dst.OriginY, src.OriginY)
	mergeInt(&dst.ImageWidth, src.ImageWidth)
	mergeInt(&dst.ImageHeight, src.ImageHeight)
	mergeInt(&dst.FieldWidth, src.FieldWidth)
	mergeInt(&dst.FieldHeight, src.FieldHeight)
	mergeInt(&dst.FieldGap, src.FieldGap)
	mergeInt(&dst.SpacingX, src.SpacingX)
	mergeInt(&dst.SpacingY, src.SpacingY)
}

func mergeFocusConfig(dst, src *FocusConfig) {
	mergeInt(&dst.EnlargedWidth, src.EnlargedWidth)
	mergeInt(&dst.EnlargedHeight, src.EnlargedHeight)
	if src.Dwell != 0 {
		dst.Dwell = src.Dwell
	}
	if src.PointerButton != "" {
		dst.PointerButton = src.PointerButton
	}
}

func mergeSessionConfig(dst, src *SessionConfig) {
	if src.SaveKey != "" {
		dst.SaveKey = src.SaveKey
	}
	if src.CancelKey != "" {
		dst.CancelKey = src.CancelKey
	}
	if src.FrameInterval != 0 {
		dst.FrameInterval = src.FrameInterval
	}
	if src.Instruction != "" {
		dst.Instruction = src.Instruction
	}
	if src.Validation != "" {
		dst.Validation = src.Validation
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.Directory != "" {
		dst.Directory = src.Directory
	}
	if src.TaskTag != "" {
		dst.TaskTag = src.TaskTag
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	// A file can switch verbose on; switching it off is left to the env var
	if src.Verbose {
		dst.Verbose = true
	}
}

func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
