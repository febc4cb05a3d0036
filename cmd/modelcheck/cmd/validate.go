package cmd

import (
	"errors"
	"fmt"

	"github.com/dbsmedya/modelcheck/internal/config"
	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/reference"
	"github.com/dbsmedya/modelcheck/internal/report"
	"github.com/spf13/cobra"
)

var (
	validateInventory  string
	validateReferences string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and input CSV headers",
	Long: `Validate checks the configuration file and optionally the input
CSVs so a scheduled run does not fail halfway.

Checks performed:
  - Configuration syntax and required fields
  - Matching, reports, extensions, heartbeat and logging settings
  - Inventory CSV header and rows (--inventory)
  - References CSV header and rows (--references)

Unlike the operational commands, validate requires the configuration
file to exist.

Example:
  modelcheck validate --config modelcheck.yaml --inventory models_inventory.csv`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateInventory, "inventory", "",
		"Inventory CSV to validate")
	validateCmd.Flags().StringVar(&validateReferences, "references", "",
		"References CSV to validate")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()
	console := report.NewConsole(cmd.OutOrStdout())

	console.Section("Configuration Validation")
	console.Printf("Config file: %s\n", configFile)

	// Strict load: a missing config file is a validation failure
	cfg, err := config.Load(configFile)
	if err != nil {
		console.Failuref("Config load failed: %v", err)
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply CLI overrides so the validated config matches what a run would use
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.OutputDir, overrides.TopDuplicates, overrides.Exact)

	hasErrors := false
	if err := cfg.Validate(); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				console.Failuref("%s: %s", ve.Field, ve.Message)
			}
		} else {
			console.Failuref("%v", err)
		}
		hasErrors = true
	} else {
		console.Successf("Configuration valid")
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		console.Failuref("Logger: %v", err)
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if validateInventory != "" {
		console.Section("Inventory Validation")
		result, err := inventory.NewLoader(log).Load(validateInventory)
		if err != nil {
			console.Failuref("%s: %v", validateInventory, err)
			hasErrors = true
		} else {
			console.Successf("%s (%d models, %d skipped rows)",
				validateInventory, len(result.Records), result.SkippedRows)
		}
	}

	if validateReferences != "" {
		console.Section("References Validation")
		result, err := reference.NewLoader(log).Load(validateReferences)
		if err != nil {
			console.Failuref("%s: %v", validateReferences, err)
			hasErrors = true
		} else {
			console.Successf("%s (%d referenced files, %d skipped rows)",
				validateReferences, len(result.Records), result.SkippedRows)
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	console.Section("Validation Complete")
	console.Successf("All checks passed")
	return nil
}
