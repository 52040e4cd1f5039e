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

func TestRunTest_Success(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	err := runTest(&buf, filepath.Join(t.TempDir(), "config.yml"), t.TempDir(), true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Configuration valid")
	assert.Contains(t, buf.String(), "✓ Templates loaded (theme bootstrap)")
	assert.Contains(t, buf.String(), "✓ Sample page compiled")
}

func TestRunTest_InvalidConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{Extensions: []string{"bpr"}}).Save(configPath))

	var buf bytes.Buffer
	err := runTest(&buf, configPath, t.TempDir(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, buf.String(), "✗ Configuration invalid")
}

func TestRunTest_UnknownTheme(t *testing.T) {
	clearEnv(t)
	t.Setenv("BSP_THEME", "missing")

	var buf bytes.Buffer
	err := runTest(&buf, filepath.Join(t.TempDir(), "config.yml"), t.TempDir(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "missing"`)
}

func TestRunTest_IncompleteTheme(t *testing.T) {
	clearEnv(t)
	origin := t.TempDir()
	templates := "minimal:\n  structural_elements:\n    header: [\"<h{header_level}>\", \"</h{header_level}>\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(origin, "minimal.yml"), []byte(templates), 0644))
	require.NoError(t, (&config.Config{Theme: "minimal", Templates: "minimal.yml"}).Save(config.SiteConfigPath(origin)))

	var buf bytes.Buffer
	err := runTest(&buf, filepath.Join(t.TempDir(), "config.yml"), origin, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme minimal cannot export the sample page")
	assert.Contains(t, buf.String(), "✓ Templates loaded (theme minimal)")
}
