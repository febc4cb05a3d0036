package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
matching:
  fuzzy: false
  suggestions: true
  max_suggestions: 5

reports:
  output_dir: /data/reports
  top_duplicates: 25

scan:
  extensions: [".safetensors", ".gguf"]

heartbeat:
  file: /data/heartbeat.txt
  threshold_minutes: 10

logging:
  level: debug
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify matching config
	if cfg.Matching.Fuzzy {
		t.Error("expected fuzzy matching disabled")
	}
	if cfg.Matching.MaxSuggestions != 5 {
		t.Errorf("expected max_suggestions 5, got %d", cfg.Matching.MaxSuggestions)
	}

	// Verify reports config
	if cfg.Reports.OutputDir != "/data/reports" {
		t.Errorf("expected output_dir '/data/reports', got %s", cfg.Reports.OutputDir)
	}
	if cfg.Reports.TopDuplicates != 25 {
		t.Errorf("expected top_duplicates 25, got %d", cfg.Reports.TopDuplicates)
	}

	// Verify scan config
	if len(cfg.Scan.Extensions) != 2 {
		t.Errorf("expected 2 scan extensions, got %d", len(cfg.Scan.Extensions))
	}

	// Verify heartbeat config
	if cfg.Heartbeat.File != "/data/heartbeat.txt" {
		t.Errorf("expected heartbeat file '/data/heartbeat.txt', got %s", cfg.Heartbeat.File)
	}
	if cfg.Heartbeat.ThresholdMinutes != 10 {
		t.Errorf("expected threshold_minutes 10, got %d", cfg.Heartbeat.ThresholdMinutes)
	}

	// Verify sections absent from the file keep their defaults
	if len(cfg.Workflows.Extensions) != 1 || cfg.Workflows.Extensions[0] != ".json" {
		t.Errorf("expected default workflows extensions, got %v", cfg.Workflows.Extensions)
	}

	// Verify logging config
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	// Set environment variables for test
	os.Setenv("TEST_REPORT_DIR", "/env/reports")
	os.Setenv("TEST_HEARTBEAT", "/env/heartbeat.txt")
	defer func() {
		os.Unsetenv("TEST_REPORT_DIR")
		os.Unsetenv("TEST_HEARTBEAT")
	}()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
reports:
  output_dir: ${TEST_REPORT_DIR}

heartbeat:
  file: ${TEST_HEARTBEAT}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Reports.OutputDir != "/env/reports" {
		t.Errorf("expected output_dir '/env/reports', got %s", cfg.Reports.OutputDir)
	}
	if cfg.Heartbeat.File != "/env/heartbeat.txt" {
		t.Errorf("expected heartbeat file '/env/heartbeat.txt', got %s", cfg.Heartbeat.File)
	}
}

func TestExpandEnvVar(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "test-value"},
		{"$TEST_VAR", "test-value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"${NONEXISTENT}", "${NONEXISTENT}"}, // Unset vars remain unchanged
		{"no-vars-here", "no-vars-here"},
	}

	for _, tt := range tests {
		result := expandEnvVar(tt.input)
		if result != tt.expected {
			t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}
	if cfg.Reports.OutputDir != "reports" {
		t.Errorf("expected default output_dir 'reports', got %s", cfg.Reports.OutputDir)
	}
}

func TestLoadOrDefaultExistingFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "present.yaml")
	if err := os.WriteFile(configPath, []byte("reports:\n  output_dir: custom\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadOrDefault(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Reports.OutputDir != "custom" {
		t.Errorf("expected output_dir 'custom', got %s", cfg.Reports.OutputDir)
	}
}

func TestApplyOverrides(t *testing.T) {
	// Start with a default config
	cfg := DefaultConfig()

	// Verify defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Logging.Level)
	}
	if !cfg.Matching.Fuzzy {
		t.Error("expected fuzzy matching enabled by default")
	}

	// Apply some overrides
	cfg.ApplyOverrides("debug", "json", "/tmp/out", 20, true)

	// Verify overrides were applied
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug' after override, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json' after override, got %s", cfg.Logging.Format)
	}
	if cfg.Reports.OutputDir != "/tmp/out" {
		t.Errorf("expected output_dir '/tmp/out' after override, got %s", cfg.Reports.OutputDir)
	}
	if cfg.Reports.TopDuplicates != 20 {
		t.Errorf("expected top_duplicates 20 after override, got %d", cfg.Reports.TopDuplicates)
	}
	if cfg.Matching.Fuzzy {
		t.Error("expected fuzzy matching disabled after --exact override")
	}
}

func TestApplyOverridesZeroValues(t *testing.T) {
	// Start with a custom config
	cfg := &Config{
		Matching: MatchingConfig{
			Fuzzy: true,
		},
		Reports: ReportsConfig{
			OutputDir:     "/custom/reports",
			TopDuplicates: 50,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}

	// Apply zero values (should NOT override)
	cfg.ApplyOverrides("", "", "", 0, false)

	// Verify original values are preserved
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn' to be preserved, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json' to be preserved, got %s", cfg.Logging.Format)
	}
	if cfg.Reports.OutputDir != "/custom/reports" {
		t.Errorf("expected output_dir '/custom/reports' to be preserved, got %s", cfg.Reports.OutputDir)
	}
	if cfg.Reports.TopDuplicates != 50 {
		t.Errorf("expected top_duplicates 50 to be preserved, got %d", cfg.Reports.TopDuplicates)
	}
	if !cfg.Matching.Fuzzy {
		t.Error("expected fuzzy matching to remain enabled")
	}
}

func TestApplyOverridesPartial(t *testing.T) {
	// Start with a default config
	cfg := DefaultConfig()

	// Apply only some overrides
	cfg.ApplyOverrides("error", "", "", 5, false)

	// Verify only specified overrides were applied
	if cfg.Logging.Level != "error" {
		t.Errorf("expected log level 'error' after override, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" { // Should keep default
		t.Errorf("expected log format to remain 'text', got %s", cfg.Logging.Format)
	}
	if cfg.Reports.OutputDir != "reports" { // Should keep default
		t.Errorf("expected output_dir to remain 'reports', got %s", cfg.Reports.OutputDir)
	}
	if cfg.Reports.TopDuplicates != 5 {
		t.Errorf("expected top_duplicates 5 after override, got %d", cfg.Reports.TopDuplicates)
	}
	if !cfg.Matching.Fuzzy {
		t.Error("expected fuzzy matching to remain enabled")
	}
}
