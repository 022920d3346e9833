package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRun_CreatesDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	run, err := NewRun(base)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	info, err := os.Stat(run.Dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, base, filepath.Dir(run.Dir))
}

func TestTestDir_SanitizesSubtestNames(t *testing.T) {
	t.Parallel()

	run, err := NewRun(t.TempDir())
	require.NoError(t, err)

	dir, err := run.TestDir("TestLogin/wrong password:edge")
	require.NoError(t, err)
	base := filepath.Base(dir)
	require.NotContains(t, base, "/")
	require.NotContains(t, base, " ")
	require.NotContains(t, base, ":")

	// Same name resolves to the same directory.
	again, err := run.TestDir("TestLogin/wrong password:edge")
	require.NoError(t, err)
	require.Equal(t, dir, again)
}

func TestScreenshotAndVideoPaths(t *testing.T) {
	t.Parallel()

	run, err := NewRun(t.TempDir())
	require.NoError(t, err)

	shot, err := run.ScreenshotPath("TestHomepage", "failure")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(shot, ".png"))

	videoDir, err := run.VideoDir("TestHomepage")
	require.NoError(t, err)
	info, err := os.Stat(videoDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestWriteConsoleLog_RedactsSecrets(t *testing.T) {
	t.Parallel()

	run, err := NewRun(t.TempDir())
	require.NoError(t, err)

	lines := []string{
		"[log] fixture: homepage ready",
		"[error] login failed for password=super-secret-pass",
	}
	path, err := run.WriteConsoleLog("TestLogin", lines, "super-secret-pass")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.NotContains(t, text, "super-secret-pass")
	require.Contains(t, text, "[REDACTED]")
	require.Contains(t, text, "homepage ready")
}

func TestWriteConsoleLog_EmptyCapture(t *testing.T) {
	t.Parallel()

	run, err := NewRun(t.TempDir())
	require.NoError(t, err)

	path, err := run.WriteConsoleLog("TestQuiet", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}
