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

var (
	dupesForce  bool
	dupesVerify bool
)

var dupesCmd = &cobra.Command{
	Use:   "dupes <inventory.csv>",
	Short: "Detect duplicate models in the inventory",
	Long: `Dupes groups the inventory three independent ways and writes one
report per grouping:

  - exact duplicates: same name (case-insensitive) and same byte size,
    with wasted space per group
  - name duplicates: same name but more than one distinct size
  - size duplicates: same size but more than one distinct name

With --verify, members of each exact group are hashed with SHA-256 to
confirm the copies really are identical. Mismatches and unreadable
files are reported but do not change the grouping.

Example:
  modelcheck dupes models_inventory.csv --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runDupes,
}

func init() {
	dupesCmd.Flags().BoolVar(&dupesForce, "force", false,
		"Force execution even if the run lock cannot be acquired (use with caution)")
	dupesCmd.Flags().BoolVar(&dupesVerify, "verify", false,
		"Hash exact-duplicate members with SHA-256 to confirm identical contents")

	rootCmd.AddCommand(dupesCmd)
}

func runDupes(cmd *cobra.Command, args []string) error {
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

	log.Infow("Starting duplicate detection",
		"inventory", args[0],
		"verify", dupesVerify,
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
	if !dupesForce {
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

	// Execute the duplicates-only run
	result, err := auditor.DupesOnly(ctx, args[0], dupesVerify)
	if err != nil {
		return fmt.Errorf("duplicate detection failed: %w", err)
	}

	// Display results
	console := report.NewConsole(cmd.OutOrStdout())
	console.Section("Duplicate Detection Complete")
	console.Printf("Run ID: %s\n", result.RunID)
	console.Printf("Duration: %s\n", result.Duration)
	if result.Inventory != nil {
		console.Printf("Models: %d\n", len(result.Inventory.Records))
	}
	if result.Duplicates != nil {
		console.Printf("Exact groups: %d\n", len(result.Duplicates.Exact))
		console.Printf("Name groups: %d\n", len(result.Duplicates.ByName))
		console.Printf("Size groups: %d\n", len(result.Duplicates.BySize))
		if len(result.Duplicates.Exact) == 0 && len(result.Duplicates.ByName) == 0 && len(result.Duplicates.BySize) == 0 {
			console.Successf("No duplicate models found")
		} else {
			console.Warnf("Wasted space: %s GB", inventory.FormatGB(result.Duplicates.TotalWastedBytes))
		}
	}

	// Verification findings are informational; only report-write failures
	// make the run unsuccessful.
	if result.VerifyStats != nil {
		console.Section("Content Verification")
		console.Printf("Groups verified: %d\n", result.VerifyStats.GroupsVerified)
		console.Printf("Files hashed: %d\n", result.VerifyStats.FilesHashed)
		for _, v := range result.Verification {
			switch {
			case v.Confirmed:
				console.Successf("group %d: %d copies confirmed identical", v.GroupID, v.Instances)
			case len(v.Members) < v.Instances:
				console.Warnf("group %d: skipped (%s)", v.GroupID, v.ErrorMessage)
			default:
				console.Failuref("group %d: same name and size but different content (%s)", v.GroupID, v.ErrorMessage)
			}
		}
	}

	console.Section("Reports")
	for _, o := range result.Outcomes {
		console.Outcome(o)
	}
	console.Printf("Success: %v\n", result.Success)

	if len(result.Errors) > 0 {
		return fmt.Errorf("duplicate detection completed with errors")
	}

	return nil
}
