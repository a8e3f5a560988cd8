package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# RankGrid configuration
version: "1.0"

stimuli:
  # Each immediate subdirectory is scanned for images (not recursive below that)
  directory: stimuli
  extensions: [".jpg"]
  # Shuffle seed; 0 picks a new order every run
  seed: 0

# Geometry is measured in terminal cells
grid:
  rows: 6
  cols: 6
  origin_x: 1
  origin_y: 2
  image_width: 12
  image_height: 5
  field_width: 4
  field_height: 1
  field_gap: 0
  spacing_x: 2
  spacing_y: 1

focus:
  enlarged_width: 60
  enlarged_height: 25
  # Minimum time an enlarged image stays up before release is honoured
  dwell: 1s
  pointer_button: left  # left|middle|right

session:
  save_key: s
  cancel_key: esc
  frame_interval: 50ms
  # Leave empty to generate from grid size and save key
  instruction: ""
  # off: save anything (empty and duplicate ranks allowed)
  # warn: save and log empty or duplicate ranks
  # enforce: refuse to save until every rank is filled and unique
  validation: "off"

output:
  directory: data
  task_tag: art_ranking
  verbose: false
  log_file: ""

display:
  theme: default  # default|high-contrast|minimal
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
stimuli:
  directory: stimuli
grid:
  rows: 6
  cols: 6
output:
  directory: data
`
}
