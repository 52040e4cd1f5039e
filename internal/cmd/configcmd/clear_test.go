package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bootstraparse/internal/config"
)

func TestRunClear_WithExistingConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "bsp", "config.yml")
	require.NoError(t, (&config.Config{Theme: "bootstrap"}).Save(configPath))

	var buf bytes.Buffer
	err := runClear(&buf, configPath, true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Configuration cleared from "+configPath)

	// Verify file is deleted
	_, err = os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunClear_NoConfigFile(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	err := runClear(&buf, filepath.Join(t.TempDir(), "config.yml"), true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No config file to remove")
}

func TestRunClear_NotesEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("BSP_THEME", "dark")

	var buf bytes.Buffer
	require.NoError(t, runClear(&buf, filepath.Join(t.TempDir(), "config.yml"), true))
	assert.Contains(t, buf.String(), "Environment variables will still be used: BSP_THEME")
}

func TestRunClear_Idempotent(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	// Running twice should succeed
	require.NoError(t, runClear(&bytes.Buffer{}, configPath, true))
	require.NoError(t, runClear(&bytes.Buffer{}, configPath, true))
}
