package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.NotEmpty(t, validateCmd.Long)
	assert.NotNil(t, validateCmd.RunE)
}

func TestValidateCommandFlags(t *testing.T) {
	flags := validateCmd.Flags()

	inventoryFlag := flags.Lookup("inventory")
	assert.NotNil(t, inventoryFlag)
	assert.Equal(t, "", inventoryFlag.DefValue)

	referencesFlag := flags.Lookup("references")
	assert.NotNil(t, referencesFlag)
	assert.Equal(t, "", referencesFlag.DefValue)
}

func TestValidateIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "validate" {
			found = true
			break
		}
	}
	assert.True(t, found, "validate command should be added to root command")
}

func TestValidateCommandExample(t *testing.T) {
	// Verify the command has example usage documentation
	assert.Contains(t, validateCmd.Long, "Example:")
	assert.Contains(t, validateCmd.Long, "modelcheck validate")
}

func TestValidateCommandChecks(t *testing.T) {
	// Verify the command documents the validation checks
	doc := validateCmd.Long
	assert.Contains(t, doc, "Checks performed")
	assert.Contains(t, doc, "Configuration")
	assert.Contains(t, doc, "Inventory CSV")
	assert.Contains(t, doc, "References CSV")
}

// ============================================================================
// CLI Execution Tests
// ============================================================================

// createTempTestConfig creates a temporary YAML config file for testing
func createTempTestConfig(t *testing.T, data map[string]interface{}) string {
	t.Helper()

	yamlData, err := yaml.Marshal(data)
	require.NoError(t, err)
	return writeTestFile(t, t.TempDir(), "test_config.yaml", string(yamlData))
}

// TestValidateCmd_Execute_ValidConfig tests validation of a well-formed config
func TestValidateCmd_Execute_ValidConfig(t *testing.T) {
	origCfgFile := cfgFile
	defer func() {
		cfgFile = origCfgFile
		rootCmd.SetArgs(nil)
	}()

	configFile := createTempTestConfig(t, map[string]interface{}{
		"matching": map[string]interface{}{
			"fuzzy": true,
		},
		"reports": map[string]interface{}{
			"output_dir": "reports",
		},
	})

	rootCmd.SetArgs([]string{"validate", "--config", configFile})
	err := rootCmd.Execute()
	assert.NoError(t, err)
}

// TestValidateCmd_Execute_MissingConfig tests that a missing config file fails
func TestValidateCmd_Execute_MissingConfig(t *testing.T) {
	origCfgFile := cfgFile
	defer func() {
		cfgFile = origCfgFile
		rootCmd.SetArgs(nil)
	}()

	rootCmd.SetArgs([]string{"validate", "--config", filepath.Join(t.TempDir(), "nope.yaml")})
	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

// TestValidateCmd_Execute_InvalidSetting tests that a bad config value fails validation
func TestValidateCmd_Execute_InvalidSetting(t *testing.T) {
	origCfgFile := cfgFile
	defer func() {
		cfgFile = origCfgFile
		rootCmd.SetArgs(nil)
	}()

	configFile := createTempTestConfig(t, map[string]interface{}{
		"reports": map[string]interface{}{
			"top_duplicates": -1,
		},
	})

	rootCmd.SetArgs([]string{"validate", "--config", configFile})
	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

// TestValidateCmd_Execute_InputFiles tests the optional input CSV checks
func TestValidateCmd_Execute_InputFiles(t *testing.T) {
	origCfgFile := cfgFile
	origValidateInventory := validateInventory
	origValidateReferences := validateReferences
	defer func() {
		cfgFile = origCfgFile
		validateInventory = origValidateInventory
		validateReferences = origValidateReferences
		rootCmd.SetArgs(nil)
	}()

	dir := t.TempDir()
	configFile := createTempTestConfig(t, map[string]interface{}{
		"matching": map[string]interface{}{"fuzzy": true},
	})
	inv := writeTestFile(t, dir, "models_inventory.csv", testInventoryCSV)
	refs := writeTestFile(t, dir, "model_references.csv", testReferencesCSV)

	rootCmd.SetArgs([]string{"validate", "--config", configFile,
		"--inventory", inv, "--references", refs})
	err := rootCmd.Execute()
	assert.NoError(t, err)
}

// TestValidateCmd_Execute_BadInputHeader tests that a missing column fails validation
func TestValidateCmd_Execute_BadInputHeader(t *testing.T) {
	origCfgFile := cfgFile
	origValidateInventory := validateInventory
	defer func() {
		cfgFile = origCfgFile
		validateInventory = origValidateInventory
		rootCmd.SetArgs(nil)
	}()

	dir := t.TempDir()
	configFile := createTempTestConfig(t, map[string]interface{}{
		"matching": map[string]interface{}{"fuzzy": true},
	})
	inv := writeTestFile(t, dir, "models_inventory.csv", "filename,directory\nx,/m\n")

	rootCmd.SetArgs([]string{"validate", "--config", configFile, "--inventory", inv})
	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
