// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/leapcompat/internal/cli/output"
)

// Snapshot is a static resolver table shared by CLI tests.
const Snapshot = `queries:
  defaults:
    - chrome 119
    - and_chr 120
    - edge 120
    - firefox 121
    - ios_saf 16.6-16.7
    - safari 17.1
    - samsung 23
    - op_mini all
  node 12:
    - node 12.22.0
  modern:
    - chrome 120
    - firefox 121
    - safari 17.2
`

// SetupTestProject writes the snapshot and a leapcompat.yaml selecting the
// static resolver into a temporary directory, and returns the config path.
// extra is appended to the config.
func SetupTestProject(t *testing.T, extra string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "queries.yaml"), []byte(Snapshot), 0o600); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	cfg := "resolver:\n  kind: static\n  file: queries.yaml\ncache:\n  enabled: false\n" + extra
	path := filepath.Join(dir, "leapcompat.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a test renderer in mode. Output is captured in
// buffers for inspection.
func NewTestRenderer(mode output.Mode) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
