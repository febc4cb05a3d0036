package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile       string
	logLevel      string
	logFormat     string
	outputDir     string
	topDuplicates int
	exactMatch    bool
)

var rootCmd = &cobra.Command{
	Use:   "modelcheck",
	Short: "AI model inventory auditor",
	Long: `A CLI tool for auditing a local AI-model collection against the
workflow files that reference it.

Features:
  - Cross-references the inventory CSV against workflow-reference CSVs
  - Missing / unused / used model reports with usage statistics
  - Duplicate grouping by name+size, name-only and size-only
  - Optional SHA-256 verification of exact-duplicate contents
  - Inventory and reference CSV producers (directory scan, workflow parse)
  - Sync heartbeat watchdog with staleness check`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "modelcheck.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Report overrides
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "",
		"Override report output directory")
	rootCmd.PersistentFlags().IntVar(&topDuplicates, "top", 0,
		"Override length of the ranked duplicate listing in the summary")

	// Matching overrides
	rootCmd.PersistentFlags().BoolVar(&exactMatch, "exact", false,
		"Match filenames byte-identically instead of fuzzily")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel      string
	LogFormat     string
	OutputDir     string
	TopDuplicates int
	Exact         bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:      logLevel,
		LogFormat:     logFormat,
		OutputDir:     outputDir,
		TopDuplicates: topDuplicates,
		Exact:         exactMatch,
	}
}
