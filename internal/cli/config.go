package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TENDERLIST"

	cfgKeyLegacyDir      = "legacy_dir"
	cfgKeyBackupDir      = "backup_dir"
	cfgKeyReload         = "reload"
	cfgKeyParameterMerge = "admin.parameter_merge"
	cfgKeyLogLevel       = "log.level"
	cfgKeyLogFormat      = "log.format"
	cfgKeyServerAddr     = "server.addr"
	cfgKeySessionTTL     = "server.session_ttl"
	cfgKeyS3Bucket       = "backup.s3.bucket"
	cfgKeyS3Region       = "backup.s3.region"
	cfgKeyS3Endpoint     = "backup.s3.endpoint"
	cfgKeyS3Prefix       = "backup.s3.prefix"

	defaultServerAddr = ":8080"
	defaultSessionTTL = "2h"
)

// configFile holds the structure written to config.yaml. Empty values are
// left out so the defaults and environment still apply.
type configFile struct {
	LegacyDir string        `yaml:"legacy_dir,omitempty"`
	BackupDir string        `yaml:"backup_dir,omitempty"`
	Reload    string        `yaml:"reload,omitempty"`
	Admin     adminSection  `yaml:"admin"`
	Log       logSection    `yaml:"log"`
	Server    serverSection `yaml:"server"`
	Backup    backupSection `yaml:"backup,omitempty"`
}

type adminSection struct {
	ParameterMerge string `yaml:"parameter_merge"`
}

type logSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type serverSection struct {
	Addr       string `yaml:"addr"`
	SessionTTL string `yaml:"session_ttl"`
}

type backupSection struct {
	S3 s3Section `yaml:"s3,omitempty"`
}

type s3Section struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

func defaultConfigFile() configFile {
	return configFile{
		Admin:  adminSection{ParameterMerge: types.MergePreserve},
		Log:    logSection{Level: "info", Format: "console"},
		Server: serverSection{Addr: defaultServerAddr, SessionTTL: defaultSessionTTL},
	}
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper, with TENDERLIST_* environment variables taking precedence. A
// missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyParameterMerge, types.MergePreserve)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "console")
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)
	v.SetDefault(cfgKeySessionTTL, defaultSessionTTL)
	v.SetDefault(cfgKeyS3Region, "us-east-1")
	v.SetDefault(cfgKeyS3Prefix, "tenderlist")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only answers Get for keys viper already knows about.
	for _, key := range []string{cfgKeyLegacyDir, cfgKeyBackupDir, cfgKeyReload, cfgKeyS3Bucket, cfgKeyS3Endpoint} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns false, nil.
func writeConfigIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := defaultConfigFile()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
