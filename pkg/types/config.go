package types

import "errors"

// Config holds the directory layout and policies used to open the tender
// reference store.
type Config struct {
	ConfigDir      string `json:"config_dir" yaml:"config_dir"`
	LegacyDir      string `json:"legacy_dir" yaml:"legacy_dir"`
	BackupDir      string `json:"backup_dir" yaml:"backup_dir"`
	Reload         string `json:"reload" yaml:"reload"`
	ParameterMerge string `json:"parameter_merge" yaml:"parameter_merge"`
}

// Reload policies for cached tables.
const (
	ReloadAlways  = "always"
	ReloadOnWrite = "on_write"
)

// Parameter merge policies used when saving the Parameter/Help grid.
const (
	MergePreserve = "preserve"
	MergeLeftJoin = "left_join"
)

// Config validation errors.
var (
	ErrConfigDirEmpty        = errors.New("config directory must not be empty")
	ErrReloadUnknown         = errors.New("unknown reload policy")
	ErrParameterMergeUnknown = errors.New("unknown parameter merge policy")
)

var knownReloads = map[string]bool{
	ReloadAlways:  true,
	ReloadOnWrite: true,
}

var knownMerges = map[string]bool{
	MergePreserve: true,
	MergeLeftJoin: true,
}

// Validate checks that the Config is well-formed. Empty policies are
// accepted and mean the defaults (always, preserve).
func (c Config) Validate() error {
	if c.ConfigDir == "" {
		return ErrConfigDirEmpty
	}
	if c.Reload != "" && !knownReloads[c.Reload] {
		return ErrReloadUnknown
	}
	if c.ParameterMerge != "" && !knownMerges[c.ParameterMerge] {
		return ErrParameterMergeUnknown
	}
	return nil
}
