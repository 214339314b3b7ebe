// Package backup keeps timestamped copies of the table files. A copy is taken
// before every write so an administrator can recover the previous content.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/logging"
	"github.com/mesh-intelligence/tenderlist/internal/metrics"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// StampLayout names backup directories: UTC, second resolution.
const StampLayout = "20060102T150405Z"

// Manager copies table files from the config directory into
// <dir>/<stamp>/<file>.
type Manager struct {
	root   string
	dir    string
	now    func() time.Time
	mirror Mirror
	log    *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithMirror uploads every backup to a remote copy as well.
func WithMirror(mirror Mirror) Option {
	return func(m *Manager) { m.mirror = mirror }
}

// WithLogger sets the logger used for mirror warnings.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New returns a Manager backing up files found in configDir into backupDir.
func New(configDir, backupDir string, opts ...Option) *Manager {
	m := &Manager{
		root: configDir,
		dir:  backupDir,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = logging.OrNop(m.log)
	return m
}

// Dir returns the backup root.
func (m *Manager) Dir() string { return m.dir }

// Backup copies the current file for id into a directory named after the
// current UTC second and returns the copy's path. It returns "" and no error
// when there is no file to back up. A second backup of the same table within
// the same second replaces the first.
func (m *Manager) Backup(ctx context.Context, id types.TableID) (string, error) {
	src := filepath.Join(m.root, id.FileName())
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.Backups.WithLabelValues(string(id), "skipped").Inc()
		return "", nil
	}
	if err != nil {
		metrics.Backups.WithLabelValues(string(id), "failed").Inc()
		return "", fmt.Errorf("stat %s: %w", src, err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		metrics.Backups.WithLabelValues(string(id), "failed").Inc()
		return "", fmt.Errorf("reading %s: %w", src, err)
	}

	stamp := m.now().UTC().Format(StampLayout)
	dst, err := m.store(stamp, id, data, info)
	if err != nil {
		metrics.Backups.WithLabelValues(string(id), "failed").Inc()
		return "", err
	}
	metrics.Backups.WithLabelValues(string(id), "created").Inc()
	m.log.Debug("table backed up", zap.String("table", string(id)), zap.String("path", dst))

	if m.mirror != nil {
		key := path.Join(stamp, id.FileName())
		if err := m.mirror.Put(ctx, key, data); err != nil {
			m.log.Warn("backup mirror upload failed", zap.String("key", key), zap.Error(err))
		}
	}
	return dst, nil
}

// store writes data as the backup of id under stamp, carrying over the
// source file's mode and modification time.
func (m *Manager) store(stamp string, id types.TableID, data []byte, info fs.FileInfo) (string, error) {
	dir := filepath.Join(m.dir, stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	dst := filepath.Join(dir, id.FileName())
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("setting backup mode: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return "", fmt.Errorf("setting backup time: %w", err)
	}
	return dst, nil
}

// Snapshot is one backup directory.
type Snapshot struct {
	Stamp string    `json:"stamp"`
	Time  time.Time `json:"time"`
	Files []string  `json:"files"`
}

// List returns the backup directories newest first. Entries whose names are
// not backup stamps are ignored. A missing backup root lists as empty.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var snaps []Snapshot
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ts, err := time.Parse(StampLayout, e.Name())
		if err != nil {
			continue
		}
		files, err := os.ReadDir(filepath.Join(m.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading backup %s: %w", e.Name(), err)
		}
		snap := Snapshot{Stamp: e.Name(), Time: ts, Files: []string{}}
		for _, f := range files {
			if f.Type().IsRegular() {
				snap.Files = append(snap.Files, f.Name())
			}
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Stamp > snaps[j].Stamp })
	return snaps, nil
}

// Restore copies the backup of id taken at stamp over the current file. The
// current file is backed up first and the path of that copy is returned. If
// the safety backup fails nothing is restored.
func (m *Manager) Restore(ctx context.Context, stamp string, id types.TableID) (string, error) {
	if _, err := time.Parse(StampLayout, stamp); err != nil {
		return "", fmt.Errorf("%w: %q", types.ErrBackupNotFound, stamp)
	}
	src := filepath.Join(m.dir, stamp, id.FileName())
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s/%s", types.ErrBackupNotFound, stamp, id.FileName())
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", src, err)
	}

	// Read first: the safety backup may land in the same directory.
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}

	safety, err := m.Backup(ctx, id)
	if err != nil {
		return "", fmt.Errorf("safety backup: %w", err)
	}

	dst := filepath.Join(m.root, id.FileName())
	if err := replaceFile(dst, data, info.Mode().Perm()); err != nil {
		return safety, fmt.Errorf("restoring %s: %w", id, err)
	}
	m.log.Info("table restored", zap.String("table", string(id)), zap.String("stamp", stamp))
	return safety, nil
}

// replaceFile atomically swaps path's content for data.
func replaceFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".restore-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := bytes.NewReader(data).WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
