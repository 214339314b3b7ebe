// Package app wires the reference store, backups, lookups and the admin
// editor into one handle shared by the CLI and the HTTP server.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/admin"
	"github.com/mesh-intelligence/tenderlist/internal/backup"
	"github.com/mesh-intelligence/tenderlist/internal/checklist"
	"github.com/mesh-intelligence/tenderlist/internal/csvstore"
	"github.com/mesh-intelligence/tenderlist/internal/logging"
	"github.com/mesh-intelligence/tenderlist/internal/lookup"
	"github.com/mesh-intelligence/tenderlist/internal/paths"
	"github.com/mesh-intelligence/tenderlist/internal/watch"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// App is an opened tender reference store.
type App struct {
	Config    types.Config
	Store     *csvstore.Store
	Backups   *backup.Manager
	Editor    *admin.Editor
	Migration csvstore.MigrationReport

	log *zap.Logger
}

type options struct {
	log    *zap.Logger
	mirror backup.Mirror
	s3     backup.S3Options
	now    func() time.Time
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger handed to every component.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMirror sends every backup to mirror as well.
func WithMirror(m backup.Mirror) Option {
	return func(o *options) { o.mirror = m }
}

// WithS3 mirrors backups to the bucket in s3. An empty bucket disables the
// mirror. WithMirror takes precedence.
func WithS3(s3 backup.S3Options) Option {
	return func(o *options) { o.s3 = s3 }
}

// WithClock replaces time.Now for backup stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Open validates cfg, moves legacy table files into the config directory and
// builds the components. Migration problems are logged and kept in
// App.Migration; they never fail Open.
func Open(ctx context.Context, cfg types.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.OrNop(o.log)

	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(cfg.ConfigDir, paths.DefaultBackupDirName)
	}

	store := csvstore.New(csvstore.Options{
		Dir:       cfg.ConfigDir,
		LegacyDir: cfg.LegacyDir,
		Reload:    cfg.Reload,
		Logger:    log,
	})
	migration := store.MigrateLegacy()

	mirror := o.mirror
	if mirror == nil && o.s3.Bucket != "" {
		s3m, err := backup.NewS3Mirror(ctx, o.s3)
		if err != nil {
			return nil, fmt.Errorf("backup mirror: %w", err)
		}
		mirror = s3m
	}

	backupOpts := []backup.Option{backup.WithLogger(log)}
	if mirror != nil {
		backupOpts = append(backupOpts, backup.WithMirror(mirror))
	}
	if o.now != nil {
		backupOpts = append(backupOpts, backup.WithClock(o.now))
	}
	backups := backup.New(cfg.ConfigDir, cfg.BackupDir, backupOpts...)

	editor := admin.NewEditor(store, backups,
		admin.WithMergePolicy(cfg.ParameterMerge),
		admin.WithLogger(log),
	)

	return &App{
		Config:    cfg,
		Store:     store,
		Backups:   backups,
		Editor:    editor,
		Migration: migration,
		log:       log,
	}, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger { return a.log }

// Lookup opens a query service over the current tables. The caller must
// close it.
func (a *App) Lookup() (*lookup.Service, error) {
	svc, err := lookup.Open(a.Store.Snapshot(), lookup.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("open lookup: %w", err)
	}
	return svc, nil
}

// Checklist fills in a checklist sheet for in.
func (a *App) Checklist(in checklist.Inputs) (checklist.Sheet, error) {
	if err := in.Validate(); err != nil {
		return checklist.Sheet{}, err
	}
	svc, err := a.Lookup()
	if err != nil {
		return checklist.Sheet{}, err
	}
	defer svc.Close()
	return checklist.Fill(in, svc), nil
}

// Guide returns the help text and active circular for parameter.
func (a *App) Guide(parameter string) (checklist.Guidance, error) {
	svc, err := a.Lookup()
	if err != nil {
		return checklist.Guidance{}, err
	}
	defer svc.Close()
	return checklist.GuideFor(svc, parameter), nil
}

// Options returns the values of list in stored order.
func (a *App) Options(list string) ([]string, error) {
	svc, err := a.Lookup()
	if err != nil {
		return nil, err
	}
	defer svc.Close()
	return svc.OptionsFor(list), nil
}

// ListNames returns the distinct list names in first-seen order.
func (a *App) ListNames() ([]string, error) {
	svc, err := a.Lookup()
	if err != nil {
		return nil, err
	}
	defer svc.Close()
	return svc.ListNames(), nil
}

// Table returns the stored rows of the named table.
func (a *App) Table(name string) (types.Rows, error) {
	id, err := types.ParseTableID(name)
	if err != nil {
		return nil, err
	}
	return a.Store.Load(id), nil
}

// Restore puts the backup of id taken at stamp back in place and returns the
// safety copy of the file it replaced.
func (a *App) Restore(ctx context.Context, stamp string, id types.TableID) (string, error) {
	safety, err := a.Backups.Restore(ctx, stamp, id)
	a.Store.Invalidate(id)
	return safety, err
}

// Watch returns a watcher that drops cached tables when their files change
// on disk. Call Run to start it.
func (a *App) Watch() (*watch.Watcher, error) {
	return watch.New(a.Config.ConfigDir, a.Store, a.log)
}
