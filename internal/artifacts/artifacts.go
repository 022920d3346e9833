// Package artifacts manages the per-run results directory where the suite
// writes screenshots, recorded videos, and captured console output.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webdrift/sitecheck/internal/logutil"
)

// Run is one suite invocation's artifact directory, laid out as
// <base>/<timestamp>-<short run id>/<test name>/.
type Run struct {
	ID  string
	Dir string
}

// NewRun creates the artifact directory for one suite invocation.
func NewRun(baseDir string) (*Run, error) {
	id := uuid.NewString()
	dir := filepath.Join(baseDir, time.Now().UTC().Format("20060102-150405")+"-"+id[:8])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir %s: %w", dir, err)
	}
	return &Run{ID: id, Dir: dir}, nil
}

// TestDir returns (and creates) the directory for one test's artifacts.
func (r *Run) TestDir(testName string) (string, error) {
	dir := filepath.Join(r.Dir, sanitizeName(testName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create test artifacts dir %s: %w", dir, err)
	}
	return dir, nil
}

// ScreenshotPath returns the file path for a named screenshot of a test.
func (r *Run) ScreenshotPath(testName, label string) (string, error) {
	dir, err := r.TestDir(testName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sanitizeName(label)+".png"), nil
}

// VideoDir returns the directory playwright should record a test's video into.
func (r *Run) VideoDir(testName string) (string, error) {
	dir, err := r.TestDir(testName)
	if err != nil {
		return "", err
	}
	videoDir := filepath.Join(dir, "video")
	if err := os.MkdirAll(videoDir, 0o755); err != nil {
		return "", fmt.Errorf("create video dir %s: %w", videoDir, err)
	}
	return videoDir, nil
}

// WriteConsoleLog saves captured browser console lines for a test, with the
// given secrets redacted. Lines are written as-is otherwise; report tooling
// treats the file as plain text.
func (r *Run) WriteConsoleLog(testName string, lines []string, secrets ...string) (string, error) {
	dir, err := r.TestDir(testName)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "console.log")
	text := logutil.RedactSecrets(strings.Join(lines, "\n"), secrets...)
	if len(lines) > 0 {
		text += "\n"
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write console log %s: %w", path, err)
	}
	return path, nil
}

// sanitizeName makes a test or label name filesystem-safe. Subtest names
// contain slashes.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", ":", "_", "\\", "_")
	cleaned := replacer.Replace(strings.TrimSpace(name))
	if cleaned == "" {
		return "unnamed"
	}
	return cleaned
}
