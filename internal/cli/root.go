// Package cli implements the tenderlist command-line interface: the tender
// checklist, the admin table editor and the HTTP server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/app"
	"github.com/mesh-intelligence/tenderlist/internal/backup"
	"github.com/mesh-intelligence/tenderlist/internal/logging"
	"github.com/mesh-intelligence/tenderlist/internal/paths"
	"github.com/mesh-intelligence/tenderlist/pkg/tenderlist"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// runtime holds the global flag values and what PersistentPreRunE loaded
// from them.
type runtime struct {
	configDir string
	envFile   string
	jsonMode  bool

	// started is set once flags and arguments were accepted.
	started bool

	resolvedConfigDir string
	v                 *viper.Viper
	log               *zap.Logger
}

// NewRootCmd creates the top-level "tenderlist" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&runtime{})
}

func newRootCmd(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:     "tenderlist",
		Short:   "Tender checklist and reference table editor",
		Long:    "tenderlist computes tender value thresholds and guidance from CSV reference\ntables, and lets an administrator edit those tables with automatic backups.",
		Version: tenderlist.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rt.started = true
			if cmd.Name() == "version" {
				return nil
			}
			return rt.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.log != nil {
				_ = rt.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&rt.configDir, "config-dir", "", "configuration directory (default: $(CWD)/config)")
	root.PersistentFlags().StringVar(&rt.envFile, "env-file", ".env", "dotenv file loaded before settings")
	root.PersistentFlags().BoolVar(&rt.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(rt))
	root.AddCommand(newChecklistCmd(rt))
	root.AddCommand(newAdminCmd(rt))
	root.AddCommand(newServeCmd(rt))

	return root
}

// Execute runs the root command with ctx and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rt := &runtime{}
	root := newRootCmd(rt)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return exitSuccess
	}
	name := root.Name()
	if cmd != nil {
		name = cmd.CommandPath()
	}
	fmt.Fprintf(stderr, "%s: %v\n", name, err)
	return exitCode(rt, err)
}

// exitCode classifies err: bad flags, arguments and references to things
// that do not exist are user errors, everything else is a system error.
func exitCode(rt *runtime, err error) int {
	var usage *usageError
	switch {
	case errors.As(err, &usage),
		errors.Is(err, types.ErrTableNotFound),
		errors.Is(err, types.ErrRowNotFound),
		errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrMissingColumn),
		errors.Is(err, types.ErrBackupNotFound),
		errors.Is(err, types.ErrConfigDirEmpty),
		errors.Is(err, types.ErrReloadUnknown),
		errors.Is(err, types.ErrParameterMergeUnknown),
		errors.Is(err, fs.ErrNotExist):
		return exitUserError
	}
	if !rt.started {
		// Cobra rejected the command line before any command ran.
		return exitUserError
	}
	return exitSysError
}

// usageError marks a malformed command line.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// load reads .env and config.yaml and builds the logger.
func (rt *runtime) load(cmd *cobra.Command) error {
	if rt.envFile != "" {
		if err := godotenv.Load(rt.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", rt.envFile, err)
		}
	}

	configDir, err := paths.ResolveConfigDir(rt.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	rt.resolvedConfigDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	rt.v = v

	log, err := logging.New(v.GetString(cfgKeyLogLevel), v.GetString(cfgKeyLogFormat), cmd.ErrOrStderr())
	if err != nil {
		return usagef("log settings: %v", err)
	}
	rt.log = log
	return nil
}

// config returns the store settings. reloadDefault applies when no reload
// policy is configured.
func (rt *runtime) config(reloadDefault string) (types.Config, error) {
	legacyDir, err := paths.ResolveLegacyDir(rt.v.GetString(cfgKeyLegacyDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve legacy dir: %w", err)
	}
	backupDir, err := paths.ResolveBackupDir(rt.resolvedConfigDir, rt.v.GetString(cfgKeyBackupDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve backup dir: %w", err)
	}
	reload := rt.v.GetString(cfgKeyReload)
	if reload == "" {
		reload = reloadDefault
	}
	return types.Config{
		ConfigDir:      rt.resolvedConfigDir,
		LegacyDir:      legacyDir,
		BackupDir:      backupDir,
		Reload:         reload,
		ParameterMerge: rt.v.GetString(cfgKeyParameterMerge),
	}, nil
}

// open opens the application with the configured settings.
func (rt *runtime) open(ctx context.Context, reloadDefault string) (*app.App, error) {
	cfg, err := rt.config(reloadDefault)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(ctx, cfg,
		app.WithLogger(rt.log),
		app.WithS3(backup.S3Options{
			Bucket:   rt.v.GetString(cfgKeyS3Bucket),
			Region:   rt.v.GetString(cfgKeyS3Region),
			Endpoint: rt.v.GetString(cfgKeyS3Endpoint),
			Prefix:   rt.v.GetString(cfgKeyS3Prefix),
		}),
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
