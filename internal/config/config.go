// Package config provides configuration structures and loading for ModelCheck.
package config

// Config represents the complete application configuration.
type Config struct {
	Matching  MatchingConfig  `yaml:"matching" mapstructure:"matching"`
	Reports   ReportsConfig   `yaml:"reports" mapstructure:"reports"`
	Scan      ScanConfig      `yaml:"scan" mapstructure:"scan"`
	Workflows WorkflowsConfig `yaml:"workflows" mapstructure:"workflows"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat" mapstructure:"heartbeat"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// MatchingConfig controls how inventory and reference filenames are compared.
type MatchingConfig struct {
	Fuzzy          bool `yaml:"fuzzy" mapstructure:"fuzzy"`                     // false = byte-identical filenames only
	Suggestions    bool `yaml:"suggestions" mapstructure:"suggestions"`         // closest-name hints for missing models
	MaxSuggestions int  `yaml:"max_suggestions" mapstructure:"max_suggestions"` // per missing model
}

// ReportsConfig controls where and how report files are written.
type ReportsConfig struct {
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	TopDuplicates int    `yaml:"top_duplicates" mapstructure:"top_duplicates"` // ranked wasted-space listing length
}

// ScanConfig controls the inventory scanner.
type ScanConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // model file extensions, with leading dot
}

// WorkflowsConfig controls the workflow reference extractor.
type WorkflowsConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // workflow file extensions, with leading dot
}

// HeartbeatConfig controls the sync watchdog timestamp file.
type HeartbeatConfig struct {
	File             string `yaml:"file" mapstructure:"file"`
	ThresholdMinutes int    `yaml:"threshold_minutes" mapstructure:"threshold_minutes"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultModelExtensions are the model file extensions recognized by the
// scanner and the workflow extractor when the config does not override them.
var DefaultModelExtensions = []string{
	".safetensors", ".ckpt", ".pt", ".pth", ".bin", ".onnx", ".gguf",
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{
			Fuzzy:          true,
			Suggestions:    true,
			MaxSuggestions: 3,
		},
		Reports: ReportsConfig{
			OutputDir:     "reports",
			TopDuplicates: 10,
		},
		Scan: ScanConfig{
			Extensions: append([]string(nil), DefaultModelExtensions...),
		},
		Workflows: WorkflowsConfig{
			Extensions: []string{".json"},
		},
		Heartbeat: HeartbeatConfig{
			File:             "sync_heartbeat.txt",
			ThresholdMinutes: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
