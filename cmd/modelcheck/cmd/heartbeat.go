package cmd

import (
	"fmt"
	"time"

	"github.com/dbsmedya/modelcheck/internal/config"
	"github.com/dbsmedya/modelcheck/internal/heartbeat"
	"github.com/dbsmedya/modelcheck/internal/logger"
	"github.com/dbsmedya/modelcheck/internal/report"
	"github.com/spf13/cobra"
)

var (
	heartbeatFile      string
	heartbeatThreshold int
)

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Manage the sync watchdog timestamp file",
	Long: `Heartbeat proves a sync process is still alive. A scheduled writer
stamps the file with the current UTC time; a checker elsewhere reads
the stamp and fails when it stops advancing.

Example:
  modelcheck heartbeat write
  modelcheck heartbeat check --threshold 5`,
}

var heartbeatWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Stamp the heartbeat file with the current UTC time",
	RunE:  runHeartbeatWrite,
}

var heartbeatCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the heartbeat age against the staleness threshold",
	Long: `Check reads the heartbeat file and compares its age against the
threshold. The exit code is non-zero when the heartbeat is missing,
unreadable or stale, so the command slots directly into a monitor.`,
	RunE: runHeartbeatCheck,
}

func init() {
	heartbeatCmd.PersistentFlags().StringVar(&heartbeatFile, "file", "",
		"Heartbeat file path (defaults to heartbeat.file from config)")
	heartbeatCheckCmd.Flags().IntVar(&heartbeatThreshold, "threshold", 0,
		"Staleness threshold in minutes (defaults to heartbeat.threshold_minutes from config)")

	heartbeatCmd.AddCommand(heartbeatWriteCmd)
	heartbeatCmd.AddCommand(heartbeatCheckCmd)
	rootCmd.AddCommand(heartbeatCmd)
}

// heartbeatSettings resolves the file path and threshold from flags and config.
func heartbeatSettings() (string, time.Duration, error) {
	cfg, err := config.LoadOrDefault(GetConfigFile())
	if err != nil {
		return "", 0, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.OutputDir, overrides.TopDuplicates, overrides.Exact)

	path := heartbeatFile
	if path == "" {
		path = cfg.Heartbeat.File
	}
	minutes := heartbeatThreshold
	if minutes <= 0 {
		minutes = cfg.Heartbeat.ThresholdMinutes
	}

	return path, time.Duration(minutes) * time.Minute, nil
}

func runHeartbeatWrite(cmd *cobra.Command, args []string) error {
	path, _, err := heartbeatSettings()
	if err != nil {
		return err
	}

	log := logger.NewDefault()
	ts, err := heartbeat.Write(path)
	if err != nil {
		return fmt.Errorf("failed to write heartbeat: %w", err)
	}
	log.Infow("Heartbeat written", "path", path, "timestamp", ts)

	console := report.NewConsole(cmd.OutOrStdout())
	console.Successf("Heartbeat written: %s (%s)", path, ts.Format(time.RFC3339Nano))

	return nil
}

func runHeartbeatCheck(cmd *cobra.Command, args []string) error {
	path, threshold, err := heartbeatSettings()
	if err != nil {
		return err
	}

	console := report.NewConsole(cmd.OutOrStdout())

	status, err := heartbeat.Check(path, threshold)
	if err != nil {
		console.Failuref("Heartbeat check failed: %v", err)
		return fmt.Errorf("heartbeat check failed: %w", err)
	}

	age := status.Age.Round(time.Second)
	if status.Stale {
		console.Failuref("Heartbeat is STALE: last beat %s ago (threshold %s)", age, threshold)
		return fmt.Errorf("heartbeat is stale: last beat %s ago", age)
	}

	console.Successf("Heartbeat is fresh: last beat %s ago (threshold %s)", age, threshold)
	return nil
}
