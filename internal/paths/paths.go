// Package paths resolves the configuration, legacy and backup directory
// locations used by the tender reference store.
package paths

import (
	"os"
	"path/filepath"
)

// Directory names relative to the working directory and the config directory.
const (
	DefaultConfigDirName = "config"
	DefaultBackupDirName = "backups"
)

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "TENDERLIST_CONFIG_DIR"

// workingDir is os.Getwd, replaceable in tests.
var workingDir = os.Getwd

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TENDERLIST_CONFIG_DIR env > $(CWD)/config.
// The result is always absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := workingDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveLegacyDir returns the directory scanned for pre-config-dir CSV files.
// The configured value wins; otherwise it is the working directory, where
// older installs kept the files.
func ResolveLegacyDir(configValue string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return workingDir()
}

// ResolveBackupDir returns the backup root: the configured value when set,
// otherwise configDir/backups.
func ResolveBackupDir(configDir, configValue string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(configDir, DefaultBackupDirName), nil
}
