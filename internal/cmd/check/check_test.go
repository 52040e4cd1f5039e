package check

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCheck(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BSP_THEME", "")
	t.Setenv("BSP_TEMPLATES", "")
	t.Chdir(t.TempDir())

	root := &cobra.Command{Use: "bsp", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("config", "c", filepath.Join(t.TempDir(), "config.yml"), "")
	root.PersistentFlags().StringP("output", "o", "table", "")
	root.PersistentFlags().Bool("no-color", true, "")
	root.AddCommand(NewCmdCheck())

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"check"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheck_Valid(t *testing.T) {
	good := writeFile(t, "good.bpr", "<<div\n**hi**\ndiv>>\n")

	out, err := executeCheck(t, good, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+good)
}

func TestCheck_Tree(t *testing.T) {
	good := writeFile(t, "good.bpr", "<<div\ntext\ndiv>>\n")

	out, err := executeCheck(t, good, "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, "div")
	assert.Contains(t, out, "text")
}

func TestCheck_ReportsMismatch(t *testing.T) {
	bad := writeFile(t, "bad.bpr", "one\ntwo\nsection>>\n")
	good := writeFile(t, "good.bpr", "fine\n")

	out, err := executeCheck(t, bad, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "line 3")
	assert.Contains(t, out, "✓ "+good)
}

func TestCheck_Warnings(t *testing.T) {
	file := writeFile(t, "warn.bpr", "a ** b\n")

	out, err := executeCheck(t, file)
	require.NoError(t, err)
	assert.Contains(t, out, "! ")
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := executeCheck(t, filepath.Join(t.TempDir(), "missing.bpr"))
	require.Error(t, err)
}

func TestProbeHTML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"balanced", "<div><p>a<br />b</p></div>", ""},
		{"void element", `<img src="a.png" alt="">`, ""},
		{"unclosed", "<div><p>a</p>", "unclosed <div>"},
		{"out of order", "<div><p></div></p>", "unexpected </div>"},
		{"stray close", "</span>", "unexpected </span>"},
		{"text only", "plain", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProbeHTML(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
