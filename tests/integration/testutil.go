// Package integration runs the tenderlist binary end to end.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// tenderlistBin is the path to the built tenderlist binary.
	tenderlistBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// cleanEnv returns os.Environ() with all TENDERLIST_* variables removed,
// providing a clean baseline for subprocess isolation.
func cleanEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "TENDERLIST_") {
			continue
		}
		env = append(env, e)
	}
	return env
}

// TestEnv provides an isolated working directory with its own config
// directory.
type TestEnv struct {
	t       *testing.T
	WorkDir string
	Config  string
	Env     []string
}

// NewTestEnv creates a new isolated test environment. The binary runs in
// WorkDir, which doubles as the legacy location.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build tenderlist: %v", buildErr)
	}
	if tenderlistBin == "" {
		t.Fatal("tenderlist binary not built (tenderlistBin is empty)")
	}

	workDir := t.TempDir()
	return &TestEnv{
		t:       t,
		WorkDir: workDir,
		Config:  filepath.Join(workDir, "config"),
		Env:     []string{"TENDERLIST_LOG_LEVEL=warn"},
	}
}

// CmdResult holds the result of a tenderlist command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Command returns the tenderlist command for args without starting it.
func (e *TestEnv) Command(args ...string) *exec.Cmd {
	allArgs := append([]string{"--config-dir", e.Config}, args...)
	cmd := exec.Command(tenderlistBin, allArgs...)
	cmd.Dir = e.WorkDir
	cmd.Env = append(cleanEnv(), e.Env...)
	return cmd
}

// Run executes the tenderlist CLI with the given arguments.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()

	cmd := e.Command(args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run tenderlist: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes the tenderlist CLI and fails the test if it returns
// non-zero.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("tenderlist %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// WriteFile writes content under the working directory.
func (e *TestEnv) WriteFile(rel, content string) string {
	e.t.Helper()
	path := filepath.Join(e.WorkDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// ReadFile reads a file under the working directory.
func (e *TestEnv) ReadFile(rel string) string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.WorkDir, rel))
	if err != nil {
		e.t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}
