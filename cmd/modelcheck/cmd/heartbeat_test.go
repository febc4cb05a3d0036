package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatCommandStructure(t *testing.T) {
	assert.NotNil(t, heartbeatCmd)
	assert.Equal(t, "heartbeat", heartbeatCmd.Use)
	assert.NotEmpty(t, heartbeatCmd.Short)
	assert.NotEmpty(t, heartbeatCmd.Long)

	assert.NotNil(t, heartbeatWriteCmd)
	assert.Equal(t, "write", heartbeatWriteCmd.Use)
	assert.NotNil(t, heartbeatWriteCmd.RunE)

	assert.NotNil(t, heartbeatCheckCmd)
	assert.Equal(t, "check", heartbeatCheckCmd.Use)
	assert.NotNil(t, heartbeatCheckCmd.RunE)
}

func TestHeartbeatCommandFlags(t *testing.T) {
	fileFlag := heartbeatCmd.PersistentFlags().Lookup("file")
	assert.NotNil(t, fileFlag)
	assert.Equal(t, "", fileFlag.DefValue)

	thresholdFlag := heartbeatCheckCmd.Flags().Lookup("threshold")
	assert.NotNil(t, thresholdFlag)
	assert.Equal(t, "0", thresholdFlag.DefValue)
}

func TestHeartbeatIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "heartbeat" {
			found = true
			break
		}
	}
	assert.True(t, found, "heartbeat command should be added to root command")
}

func TestHeartbeatSubcommands(t *testing.T) {
	names := make([]string, 0, 2)
	for _, cmd := range heartbeatCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "write")
	assert.Contains(t, names, "check")
}

// ============================================================================
// CLI Execution Tests
// ============================================================================

// TestHeartbeatCmd_Execute_WriteAndCheck tests the write then fresh-check cycle
func TestHeartbeatCmd_Execute_WriteAndCheck(t *testing.T) {
	origHeartbeatFile := heartbeatFile
	defer func() {
		heartbeatFile = origHeartbeatFile
		rootCmd.SetArgs(nil)
	}()

	path := filepath.Join(t.TempDir(), "_sync_monitor", "sync_heartbeat.txt")

	rootCmd.SetArgs([]string{"heartbeat", "write", "--file", path})
	err := rootCmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	rootCmd.SetArgs([]string{"heartbeat", "check", "--file", path})
	err = rootCmd.Execute()
	assert.NoError(t, err)
}

// TestHeartbeatCmd_Execute_CheckStale tests that an old heartbeat fails the check
func TestHeartbeatCmd_Execute_CheckStale(t *testing.T) {
	origHeartbeatFile := heartbeatFile
	origHeartbeatThreshold := heartbeatThreshold
	defer func() {
		heartbeatFile = origHeartbeatFile
		heartbeatThreshold = origHeartbeatThreshold
		rootCmd.SetArgs(nil)
	}()

	dir := t.TempDir()
	old := time.Now().UTC().Add(-10 * time.Minute).Format(time.RFC3339Nano)
	path := writeTestFile(t, dir, "sync_heartbeat.txt", old+"\n")

	rootCmd.SetArgs([]string{"heartbeat", "check", "--file", path, "--threshold", "5"})
	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stale")
}

// TestHeartbeatCmd_Execute_CheckMissing tests that a missing heartbeat fails the check
func TestHeartbeatCmd_Execute_CheckMissing(t *testing.T) {
	origHeartbeatFile := heartbeatFile
	origHeartbeatThreshold := heartbeatThreshold
	defer func() {
		heartbeatFile = origHeartbeatFile
		heartbeatThreshold = origHeartbeatThreshold
		rootCmd.SetArgs(nil)
	}()

	path := filepath.Join(t.TempDir(), "sync_heartbeat.txt")

	rootCmd.SetArgs([]string{"heartbeat", "check", "--file", path, "--threshold", "5"})
	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "heartbeat file not found")
}
