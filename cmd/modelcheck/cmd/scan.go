package cmd

import (
	"fmt"

	"github.com/dbsmedya/modelcheck/internal/config"
	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/report"
	"github.com/spf13/cobra"
)

var scanOutput string

var scanCmd = &cobra.Command{
	Use:   "scan <models-dir>",
	Short: "Scan a models directory into an inventory CSV",
	Long: `Scan walks a models directory and writes the inventory CSV that
check and dupes consume.

One row is emitted per model file (extensions from scan.extensions):
filename relative to the root with forward slashes, absolute directory,
modification time and size in bytes plus derived MB/GB columns.

Example:
  modelcheck scan /srv/comfyui/models -o models_inventory.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "models_inventory.csv",
		"Destination inventory CSV path")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration (defaults when no config file exists)
	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply CLI overrides
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.OutputDir, overrides.TopDuplicates, overrides.Exact)

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infow("Starting inventory scan",
		"root", args[0],
		"output", scanOutput,
	)

	scanner := inventory.NewScanner(cfg.Scan.Extensions, log)
	records, err := scanner.Scan(args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if err := inventory.WriteCSV(scanOutput, records); err != nil {
		return fmt.Errorf("failed to write inventory CSV: %w", err)
	}

	console := report.NewConsole(cmd.OutOrStdout())
	console.Section("Scan Complete")
	console.Successf("%s (%d models)", scanOutput, len(records))

	return nil
}
