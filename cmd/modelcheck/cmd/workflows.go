package cmd

import (
	"fmt"

	"github.com/dbsmedya/modelcheck/internal/config"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/report"
	"github.com/dbsmedya/modelcheck/internal/workflow"
	"github.com/spf13/cobra"
)

var workflowsOutput string

var workflowsCmd = &cobra.Command{
	Use:   "workflows <workflows-dir>",
	Short: "Extract model references from workflow files into a references CSV",
	Long: `Workflows walks a directory of workflow JSON files and writes the
references CSV that check consumes.

Both ComfyUI export formats are understood: the UI format (a "nodes"
array, node name from "type") and the API format (node objects keyed
by id, node name from "class_type"). Any other JSON document is walked
generically. Every string value with a model file extension becomes
one reference row. Files that fail to parse are skipped and counted.

Example:
  modelcheck workflows /srv/comfyui/workflows -o model_references.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflows,
}

func init() {
	workflowsCmd.Flags().StringVarP(&workflowsOutput, "output", "o", "model_references.csv",
		"Destination references CSV path")

	rootCmd.AddCommand(workflowsCmd)
}

func runWorkflows(cmd *cobra.Command, args []string) error {
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

	log.Infow("Starting workflow extraction",
		"root", args[0],
		"output", workflowsOutput,
	)

	extractor := workflow.NewExtractor(cfg.Workflows.Extensions, cfg.Scan.Extensions, log)
	result, err := extractor.ExtractDir(args[0])
	if err != nil {
		return fmt.Errorf("workflow extraction failed: %w", err)
	}

	if err := workflow.WriteCSV(workflowsOutput, result.Rows); err != nil {
		return fmt.Errorf("failed to write references CSV: %w", err)
	}

	console := report.NewConsole(cmd.OutOrStdout())
	console.Section("Extraction Complete")
	console.Printf("Workflows scanned: %d\n", result.WorkflowsScanned)
	console.Successf("%s (%d references)", workflowsOutput, len(result.Rows))
	if result.ParseFailures > 0 {
		console.Warnf("Unparsable workflows skipped: %d", result.ParseFailures)
	}

	return nil
}
