package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dbsmedya/modelcheck/internal/audit"
	"github.com/dbsmedya/modelcheck/internal/config"
	"github.com/dbsmedya/modelcheck/internal/inventory"
	"github.com/dbsmedya/modelcheck/internal/lock"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/report"
	"github.com/spf13/cobra"
)

var checkForce bool

var checkCmd = &cobra.Command{
	Use:   "check <inventory.csv> <references.csv>",
	Short: "Cross-reference the model inventory against workflow references",
	Long: `Check loads the inventory and reference CSVs, partitions the models
into missing, unused and used sets, groups duplicates, and writes the
report files plus a text summary to the output directory.

The check process follows these steps:
  1. Load the inventory CSV (malformed rows are skipped and counted)
  2. Load the references CSV, aggregated per referenced filename
  3. Match references against the inventory (fuzzy by default)
  4. Group duplicates by name+size, by name and by size
  5. Write every report file; one failed write does not stop the rest

Example:
  modelcheck check models_inventory.csv model_references.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkForce, "force", false,
		"Force execution even if the run lock cannot be acquired (use with caution)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	log.Infow("Starting check",
		"inventory", args[0],
		"references", args[1],
		"config", configFile,
	)

	// Create auditor
	auditor, err := audit.NewAuditor(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create auditor: %w", err)
	}

	// The lock file lives in the output directory, so it must exist first
	if err := auditor.Writer().EnsureOutputDir(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Acquire run lock to prevent interleaved report writes
	if !checkForce {
		runLock := lock.NewRunLock(cfg.Reports.OutputDir)
		if err := runLock.AcquireOrFail(); err != nil {
			if errors.Is(err, lock.ErrLockHeld) {
				return fmt.Errorf("another run is writing to '%s' (use --force to override)", cfg.Reports.OutputDir)
			}
			return fmt.Errorf("failed to acquire run lock: %w", err)
		}
		defer runLock.Release()
		log.Infow("Acquired run lock", "dir", cfg.Reports.OutputDir)
	} else {
		log.Warnw("Skipping run lock acquisition (--force flag used)", "dir", cfg.Reports.OutputDir)
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("Received shutdown signal - stopping at the next stage boundary...")
		cancel()
	}()

	// Execute the audit run
	result, err := auditor.Run(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	// Display results
	console := report.NewConsole(cmd.OutOrStdout())
	console.Section("Check Complete")
	console.Printf("Run ID: %s\n", result.RunID)
	console.Printf("Duration: %s\n", result.Duration)
	if result.Inventory != nil {
		console.Printf("Models: %d\n", len(result.Inventory.Records))
	}
	if result.References != nil {
		console.Printf("Referenced files: %d\n", len(result.References.Records))
	}
	if result.Match != nil {
		console.Printf("Used: %d\n", len(result.Match.Used))
		console.Printf("Unused: %d\n", len(result.Match.Unused))
		if len(result.Match.Missing) == 0 {
			console.Successf("No missing models: every referenced model is present")
		} else {
			console.Warnf("Missing models: %d", len(result.Match.Missing))
		}
	}
	if result.Duplicates != nil {
		groups := len(result.Duplicates.Exact) + len(result.Duplicates.ByName) + len(result.Duplicates.BySize)
		if groups == 0 {
			console.Successf("No duplicate models found")
		} else {
			console.Warnf("Duplicate groups: %d (%s GB wasted)",
				groups, inventory.FormatGB(result.Duplicates.TotalWastedBytes))
		}
	}

	console.Section("Reports")
	for _, o := range result.Outcomes {
		console.Outcome(o)
	}
	console.Printf("Success: %v\n", result.Success)

	if len(result.Errors) > 0 {
		return fmt.Errorf("check completed with errors")
	}

	return nil
}
