package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bootstraparse/internal/config"
	"github.com/open-cli-collective/bootstraparse/internal/view"
)

func newCmd(configPath, output string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", configPath, "")
	cmd.Flags().String("output", output, "")
	cmd.Flags().Bool("no-color", true, "")
	return cmd
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/tmp/bsp.yml", ConfigPath(newCmd("/tmp/bsp.yml", "")))

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, config.DefaultConfigPath(), ConfigPath(newCmd("", "")))
}

func TestTemplates(t *testing.T) {
	dir := t.TempDir()
	custom := "bootstrap:\n  inline_elements:\n    strong: [\"<b>\", \"</b>\"]\ndark:\n  inline_elements:\n    em: [\"<i>\", \"</i>\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yml"), []byte(custom), 0644))

	templates, err := Templates(&config.Config{Theme: "dark", Templates: "custom.yml"}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"bootstrap", "dark"}, templates.Themes())

	start, end, err := templates.Lookup("bootstrap", "inline_elements", "strong")
	require.NoError(t, err)
	assert.Equal(t, "<b>", start)
	assert.Equal(t, "</b>", end)

	_, err = Templates(&config.Config{Theme: "dark"}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "dark" (available: bootstrap)`)

	_, err = Templates(&config.Config{Theme: "bootstrap", Templates: "missing.yml"}, dir)
	require.Error(t, err)
}

func TestNewConverter(t *testing.T) {
	conv, err := NewConverter(&config.Config{
		Theme:  config.DefaultTheme,
		Images: map[string]string{"logo": "/logo.png"},
	}, "")
	require.NoError(t, err)

	res, err := conv.Convert("@{logo|Logo}\n", "page.bpr")
	require.NoError(t, err)
	assert.Contains(t, res.HTML, `src="/logo.png"`)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BSP_WORKERS", "")
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("workers: -1\n"), 0644))

	_, err := LoadConfig(newCmd(configPath, ""), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bsp config test")

	require.NoError(t, os.WriteFile(configPath, []byte("workers: 3\n"), 0644))
	cfg, err := LoadConfig(newCmd(configPath, ""), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestNewRenderer(t *testing.T) {
	cmd := newCmd("", "json")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	r, err := NewRenderer(cmd)
	require.NoError(t, err)
	assert.Equal(t, view.FormatJSON, r.Format())

	r.RenderText("hello")
	assert.Equal(t, "hello\n", buf.String())

	_, err = NewRenderer(newCmd("", "yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
