package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/RankGrid/internal/grid"
)

// Config holds the complete application configuration. All values are fixed
// for the duration of a session.
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Stimuli StimuliConfig `yaml:"stimuli" json:"stimuli"`
	Grid    GridConfig    `yaml:"grid" json:"grid"`
	Focus   FocusConfig   `yaml:"focus" json:"focus"`
	Session SessionConfig `yaml:"session" json:"session"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Display DisplayConfig `yaml:"display" json:"display"`
}

// StimuliConfig configures stimulus discovery
type StimuliConfig struct {
	Directory  string   `yaml:"directory" json:"directory"`   // root holding one subdirectory per category
	Extensions []string `yaml:"extensions" json:"extensions"` // matched case-insensitively
	Seed       int64    `yaml:"seed" json:"seed"`             // shuffle seed, 0 = time based
}

// GridConfig configures grid geometry in terminal cells
type GridConfig struct {
	Rows        int `yaml:"rows" json:"rows"`
	Cols        int `yaml:"cols" json:"cols"`
	OriginX     int `yaml:"origin_x" json:"origin_x"`
	OriginY     int `yaml:"origin_y" json:"origin_y"`
	ImageWidth  int `yaml:"image_width" json:"image_width"`
	ImageHeight int `yaml:"image_height" json:"image_height"`
	FieldWidth  int `yaml:"field_width" json:"field_width"`
	FieldHeight int `yaml:"field_height" json:"field_height"`
	FieldGap    int `yaml:"field_gap" json:"field_gap"`
	SpacingX    int `yaml:"spacing_x" json:"spacing_x"`
	SpacingY    int `yaml:"spacing_y" json:"spacing_y"`
}

// FocusConfig configures click-to-enlarge
type FocusConfig struct {
	EnlargedWidth  int           `yaml:"enlarged_width" json:"enlarged_width"`
	EnlargedHeight int           `yaml:"enlarged_height" json:"enlarged_height"`
	Dwell          time.Duration `yaml:"dwell" json:"dwell"`                   // minimum time before release is honoured
	PointerButton  string        `yaml:"pointer_button" json:"pointer_button"` // left|middle|right
}

// SessionConfig configures the interactive loop
type SessionConfig struct {
	SaveKey       string        `yaml:"save_key" json:"save_key"`
	CancelKey     string        `yaml:"cancel_key" json:"cancel_key"`
	FrameInterval time.Duration `yaml:"frame_interval" json:"frame_interval"`
	Instruction   string        `yaml:"instruction" json:"instruction"` // empty = generated from keys and grid size
	Validation    string        `yaml:"validation" json:"validation"`   // off|warn|enforce
}

// OutputConfig configures result files and logging
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	TaskTag   string `yaml:"task_tag" json:"task_tag"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
	LogFile   string `yaml:"log_file" json:"log_file"` // empty = flush session log to stderr on exit
}

// DisplayConfig configures colours
type DisplayConfig struct {
	Theme string `yaml:"theme" json:"theme"` // default|high-contrast|minimal
}

var (
	validButtons     = []string{"left", "middle", "right"}
	validValidations = []string{"off", "warn", "enforce"}
	validThemes      = []string{"default", "high-contrast", "minimal"}
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Stimuli: StimuliConfig{
			Directory:  "stimuli",
			Extensions: []string{".jpg"},
			Seed:       0,
		},
		Grid: GridConfig{
			Rows:        6,
			Cols:        6,
			OriginX:     1,
			OriginY:     2,
			ImageWidth:  12,
			ImageHeight: 5,
			FieldWidth:  4,
			FieldHeight: 1,
			FieldGap:    0,
			SpacingX:    2,
			SpacingY:    1,
		},
		Focus: FocusConfig{
			EnlargedWidth:  60,
			EnlargedHeight: 25,
			Dwell:          time.Second,
			PointerButton:  "left",
		},
		Session: SessionConfig{
			SaveKey:       "s",
			CancelKey:     "esc",
			FrameInterval: 50 * time.Millisecond,
			Instruction:   "",
			Validation:    "off",
		},
		Output: OutputConfig{
			Directory: "data",
			TaskTag:   "art_ranking",
			Verbose:   false,
			LogFile:   "",
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// Layout converts the grid section to a layout
func (c *Config) Layout() grid.Layout {
	return grid.Layout{
		Rows:      c.Grid.Rows,
		Cols:      c.Grid.Cols,
		Origin:    grid.Point{X: c.Grid.OriginX, Y: c.Grid.OriginY},
		ImageSize: grid.Size{W: c.Grid.ImageWidth, H: c.Grid.ImageHeight},
		FieldSize: grid.Size{W: c.Grid.FieldWidth, H: c.Grid.FieldHeight},
		FieldGap:  c.Grid.FieldGap,
		Spacing:   grid.Size{W: c.Grid.SpacingX, H: c.Grid.SpacingY},
	}
}

// EnlargedSize returns the zoom size
func (c *Config) EnlargedSize() grid.Size {
	return grid.Size{W: c.Focus.EnlargedWidth, H: c.Focus.EnlargedHeight}
}

// Instruction returns the configured instruction or one built from the grid size and keys
func (c *Config) Instruction() string {
	if c.Session.Instruction != "" {
		return c.Session.Instruction
	}
	return fmt.Sprintf("Rank each painting from 1 (highest) to %d (lowest). Press '%s' to save and exit.",
		c.Grid.Rows*c.Grid.Cols, c.Session.SaveKey)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateStimuliConfig(); err != nil {
		return err
	}
	if err := c.validateGridConfig(); err != nil {
		return err
	}
	if err := c.validateFocusConfig(); err != nil {
		return err
	}
	if err := c.validateSessionConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStimuliConfig() error {
	if c.Stimuli.Directory == "" {
		return fmt.Errorf("stimuli directory must be set")
	}
	if len(c.Stimuli.Extensions) == 0 {
		return fmt.Errorf("at least one stimulus extension must be set")
	}
	return nil
}

func (c *Config) validateGridConfig() error {
	if err := c.Layout().Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	return nil
}

func (c *Config) validateFocusConfig() error {
	if c.Focus.EnlargedWidth < c.Grid.ImageWidth || c.Focus.EnlargedHeight < c.Grid.ImageHeight {
		return fmt.Errorf("enlarged size %dx%d must not be smaller than image size %dx%d",
			c.Focus.EnlargedWidth, c.Focus.EnlargedHeight, c.Grid.ImageWidth, c.Grid.ImageHeight)
	}
	if c.Focus.Dwell < 0 {
		return fmt.Errorf("dwell must be non-negative")
	}
	if !oneOf(c.Focus.PointerButton, validButtons) {
		return fmt.Errorf("invalid pointer button: %s (must be one of: %s)", c.Focus.PointerButton, strings.Join(validButtons, ", "))
	}
	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Session.SaveKey == "" || c.Session.CancelKey == "" {
		return fmt.Errorf("save_key and cancel_key must be set")
	}
	if c.Session.SaveKey == c.Session.CancelKey {
		return fmt.Errorf("save_key and cancel_key must differ")
	}
	if c.Session.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be greater than 0")
	}
	if !oneOf(c.Session.Validation, validValidations) {
		return fmt.Errorf("invalid validation mode: %s (must be one of: %s)", c.Session.Validation, strings.Join(validValidations, ", "))
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.Directory == "" {
		return fmt.Errorf("output directory must be set")
	}
	if c.Output.TaskTag == "" || strings.ContainsAny(c.Output.TaskTag, `/\`) {
		return fmt.Errorf("invalid task tag: %q", c.Output.TaskTag)
	}
	if c.Display.Theme != "" && !oneOf(c.Display.Theme, validThemes) {
		return fmt.Errorf("invalid theme: %s (must be one of: %s)", c.Display.Theme, strings.Join(validThemes, ", "))
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
