package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFile(t *testing.T) {
	// Save original value and restore after test
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{
			name:     "default config file",
			cfgValue: "",
			want:     "",
		},
		{
			name:     "custom config file",
			cfgValue: "/path/to/custom.yaml",
			want:     "/path/to/custom.yaml",
		},
		{
			name:     "config file with spaces",
			cfgValue: "/path/to/my config.yaml",
			want:     "/path/to/my config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			got := GetConfigFile()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCLIOverrides(t *testing.T) {
	// Save original values and restore after test
	originalLogLevel := logLevel
	originalLogFormat := logFormat
	originalOutputDir := outputDir
	originalTopDuplicates := topDuplicates
	originalExactMatch := exactMatch
	defer func() {
		logLevel = originalLogLevel
		logFormat = originalLogFormat
		outputDir = originalOutputDir
		topDuplicates = originalTopDuplicates
		exactMatch = originalExactMatch
	}()

	tests := []struct {
		name          string
		logLevel      string
		logFormat     string
		outputDir     string
		topDuplicates int
		exactMatch    bool
		want          CLIOverrides
	}{
		{
			name:          "empty overrides",
			logLevel:      "",
			logFormat:     "",
			outputDir:     "",
			topDuplicates: 0,
			exactMatch:    false,
			want: CLIOverrides{
				LogLevel:      "",
				LogFormat:     "",
				OutputDir:     "",
				TopDuplicates: 0,
				Exact:         false,
			},
		},
		{
			name:          "all overrides set",
			logLevel:      "debug",
			logFormat:     "text",
			outputDir:     "/srv/reports",
			topDuplicates: 25,
			exactMatch:    true,
			want: CLIOverrides{
				LogLevel:      "debug",
				LogFormat:     "text",
				OutputDir:     "/srv/reports",
				TopDuplicates: 25,
				Exact:         true,
			},
		},
		{
			name:          "partial overrides",
			logLevel:      "warn",
			logFormat:     "",
			outputDir:     "",
			topDuplicates: 5,
			exactMatch:    false,
			want: CLIOverrides{
				LogLevel:      "warn",
				LogFormat:     "",
				OutputDir:     "",
				TopDuplicates: 5,
				Exact:         false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logLevel = tt.logLevel
			logFormat = tt.logFormat
			outputDir = tt.outputDir
			topDuplicates = tt.topDuplicates
			exactMatch = tt.exactMatch

			got := GetCLIOverrides()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommandStructure(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "modelcheck", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Equal(t, Version, rootCmd.Version)
}

func TestRootCommandPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	// Test config flag
	configFlag, err := flags.GetString("config")
	assert.NoError(t, err)
	assert.Equal(t, "modelcheck.yaml", configFlag)

	// Test log-level flag
	logLevelFlag, err := flags.GetString("log-level")
	assert.NoError(t, err)
	assert.Equal(t, "", logLevelFlag)

	// Test log-format flag
	logFormatFlag, err := flags.GetString("log-format")
	assert.NoError(t, err)
	assert.Equal(t, "", logFormatFlag)

	// Test output-dir flag
	outputDirFlag, err := flags.GetString("output-dir")
	assert.NoError(t, err)
	assert.Equal(t, "", outputDirFlag)

	// Test top flag
	topFlag, err := flags.GetInt("top")
	assert.NoError(t, err)
	assert.Equal(t, 0, topFlag)

	// Test exact flag
	exactFlag, err := flags.GetBool("exact")
	assert.NoError(t, err)
	assert.Equal(t, false, exactFlag)
}

func TestRootCommandSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, len(commands))
	for i, cmd := range commands {
		commandNames[i] = cmd.Name()
	}

	expectedCommands := []string{
		"check",
		"dupes",
		"scan",
		"workflows",
		"heartbeat",
		"validate",
		"version",
	}

	for _, expected := range expectedCommands {
		assert.Contains(t, commandNames, expected, "Expected command %s not found", expected)
	}
}
