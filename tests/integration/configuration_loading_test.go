package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runTenderlistWith runs the binary in dir with only the given TENDERLIST_*
// variables set, without adding --config-dir.
func runTenderlistWith(t *testing.T, dir string, env []string, args ...string) CmdResult {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("failed to build tenderlist: %v", buildErr)
	}

	cmd := exec.Command(tenderlistBin, args...)
	cmd.Dir = dir
	cmd.Env = append(cleanEnv(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		require.True(t, ok, "run tenderlist: %v", err)
		exitCode = exitErr.ExitCode()
	}
	return CmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode}
}

func writeConfigYAML(t *testing.T, configDir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))
}

// deleteFirstList removes the first lists row and returns the backup path.
func deleteFirstList(t *testing.T, dir string, env []string, extra ...string) string {
	t.Helper()
	args := append(append([]string{}, extra...), "--json", "admin", "delete", "lists", "0: TenderType | Service")
	res := runTenderlistWith(t, dir, env, args...)
	require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
	report := ParseJSON[reportOutput](t, res.Stdout)
	require.Len(t, report.Backups, 1)
	return report.Backups[0]
}

func TestConfigDirPrecedence(t *testing.T) {
	work := t.TempDir()
	envDir := filepath.Join(work, "from-env")
	flagDir := filepath.Join(work, "from-flag")
	env := []string{"TENDERLIST_CONFIG_DIR=" + envDir}

	t.Run("env when no flag", func(t *testing.T) {
		res := runTenderlistWith(t, work, env, "--json", "init")
		require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
		assert.Equal(t, envDir, ParseJSON[initOutput](t, res.Stdout).ConfigDir)
		assert.FileExists(t, filepath.Join(envDir, "policy.csv"))
	})

	t.Run("flag over env", func(t *testing.T) {
		res := runTenderlistWith(t, work, env, "--config-dir", flagDir, "--json", "init")
		require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
		assert.Equal(t, flagDir, ParseJSON[initOutput](t, res.Stdout).ConfigDir)
		assert.FileExists(t, filepath.Join(flagDir, "policy.csv"))
	})
}

func TestBackupDirPrecedence(t *testing.T) {
	work := t.TempDir()
	configDir := filepath.Join(work, "config")
	yamlBackups := filepath.Join(work, "yaml-backups")
	envBackups := filepath.Join(work, "env-backups")
	dotenvBackups := filepath.Join(work, "dotenv-backups")
	base := []string{"TENDERLIST_CONFIG_DIR=" + configDir}

	res := runTenderlistWith(t, work, base, "init")
	require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)

	t.Run("default under config dir", func(t *testing.T) {
		path := deleteFirstList(t, work, base)
		assert.True(t, strings.HasPrefix(path, filepath.Join(configDir, "backups")), path)
		runTenderlistWith(t, work, base, "admin", "restore", filepath.Base(filepath.Dir(path)), "lists")
	})

	writeConfigYAML(t, configDir, "backup_dir: "+yamlBackups+"\n")

	t.Run("config file over default", func(t *testing.T) {
		path := deleteFirstList(t, work, base)
		assert.True(t, strings.HasPrefix(path, yamlBackups), path)
		runTenderlistWith(t, work, base, "admin", "restore", filepath.Base(filepath.Dir(path)), "lists")
	})

	t.Run("env over config file", func(t *testing.T) {
		env := append(append([]string{}, base...), "TENDERLIST_BACKUP_DIR="+envBackups)
		path := deleteFirstList(t, work, env)
		assert.True(t, strings.HasPrefix(path, envBackups), path)
		runTenderlistWith(t, work, env, "admin", "restore", filepath.Base(filepath.Dir(path)), "lists")
	})

	t.Run("env file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(work, ".env"),
			[]byte("TENDERLIST_BACKUP_DIR="+dotenvBackups+"\n"), 0o644))
		defer os.Remove(filepath.Join(work, ".env"))

		path := deleteFirstList(t, work, base)
		assert.True(t, strings.HasPrefix(path, dotenvBackups), path)
	})
}

func TestInvalidSettingsExitOne(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  []string
	}{
		{name: "unknown reload in file", yaml: "reload: sometimes\n"},
		{name: "unknown merge policy in file", yaml: "admin:\n  parameter_merge: overwrite\n"},
		{name: "unknown reload in env", env: []string{"TENDERLIST_RELOAD=never"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := t.TempDir()
			configDir := filepath.Join(work, "config")
			if tt.yaml != "" {
				writeConfigYAML(t, configDir, tt.yaml)
			}
			env := append([]string{"TENDERLIST_CONFIG_DIR=" + configDir}, tt.env...)

			res := runTenderlistWith(t, work, env, "checklist")
			assert.Equal(t, 1, res.ExitCode, "stdout: %s\nstderr: %s", res.Stdout, res.Stderr)
			assert.Contains(t, res.Stderr, "invalid config")
		})
	}
}
