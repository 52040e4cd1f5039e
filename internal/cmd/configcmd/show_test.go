package configcmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bootstraparse/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg := &config.Config{
		Theme:      "bootstrap",
		Extensions: []string{".bpr", ".bsp"},
		Workers:    4,
		Aliases:    map[string]string{"b": "2", "a": "1"},
	}
	require.NoError(t, cfg.Save(configPath))

	var buf bytes.Buffer
	err := runShow(&buf, configPath, true)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "bootstrap  (source: config)")
	assert.Contains(t, out, ".bpr, .bsp  (source: config)")
	assert.Contains(t, out, "4  (source: config)")
	assert.Contains(t, out, "a, b  (source: config)")
	assert.Contains(t, out, "Config file: "+configPath)
	assert.NotContains(t, out, "(file not found)")
}

func TestRunShow_EnvOverride(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{Theme: "bootstrap"}).Save(configPath))
	t.Setenv("BSP_THEME", "dark")

	var buf bytes.Buffer
	require.NoError(t, runShow(&buf, configPath, true))
	assert.Contains(t, buf.String(), "dark  (source: BSP_THEME)")
}

func TestRunShow_NoConfigFile(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	err := runShow(&buf, filepath.Join(t.TempDir(), "config.yml"), true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(file not found)")
}
