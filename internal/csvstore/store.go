// Package csvstore owns the four reference tables on disk. Each table is a
// CSV file in the config directory; a missing or unreadable file reads as
// the built-in defaults.
package csvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/logging"
	"github.com/mesh-intelligence/tenderlist/internal/metrics"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Options configures a Store.
type Options struct {
	// Dir is the config directory holding the CSV files.
	Dir string

	// LegacyDir is where older installs kept the files. Empty disables
	// migration.
	LegacyDir string

	// Reload is types.ReloadAlways (default) or types.ReloadOnWrite.
	Reload string

	Logger *zap.Logger
}

// Store loads and saves the reference tables.
type Store struct {
	dir       string
	legacyDir string
	cached    bool
	log       *zap.Logger

	mu    sync.RWMutex
	cache map[types.TableID]types.Rows
}

// New creates a Store over opts.Dir. Nothing is read until the first Load.
func New(opts Options) *Store {
	return &Store{
		dir:       opts.Dir,
		legacyDir: opts.LegacyDir,
		cached:    opts.Reload == types.ReloadOnWrite,
		log:       logging.OrNop(opts.Logger),
		cache:     make(map[types.TableID]types.Rows),
	}
}

// Dir returns the config directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file backing table id.
func (s *Store) Path(id types.TableID) string {
	return filepath.Join(s.dir, id.FileName())
}

// Read parses the file for id. Any failure, including a missing file, is
// returned as a *LoadError.
func (s *Store) Read(id types.TableID) (types.Rows, error) {
	path := s.Path(id)
	header, records, err := readCSV(path)
	if err != nil {
		return nil, &LoadError{Table: id, Path: path, Err: err}
	}
	rows, err := decode(id, header, records)
	if err != nil {
		return nil, &LoadError{Table: id, Path: path, Err: err}
	}
	return rows, nil
}

// Load returns the rows for id, falling back to the built-in defaults when
// the file is missing or cannot be parsed. Load never fails for a standard
// table; it returns nil only for an unknown id.
func (s *Store) Load(id types.TableID) types.Rows {
	if s.cached {
		s.mu.RLock()
		rows, ok := s.cache[id]
		s.mu.RUnlock()
		if ok {
			return cloneRows(rows)
		}
	}

	rows, err := s.Read(id)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Missing() {
			s.log.Debug("table file missing, using defaults", zap.String("table", string(id)))
			metrics.LoadFallbacks.WithLabelValues(string(id), "missing").Inc()
		} else {
			s.log.Warn("table file unreadable, using defaults", zap.String("table", string(id)), zap.Error(err))
			metrics.LoadFallbacks.WithLabelValues(string(id), "corrupt").Inc()
		}
		rows = Defaults(id)
		if rows == nil {
			return nil
		}
	}

	if s.cached {
		s.mu.Lock()
		s.cache[id] = cloneRows(rows)
		s.mu.Unlock()
	}
	return rows
}

// Snapshot loads all four tables.
func (s *Store) Snapshot() types.Tables {
	return types.Tables{
		Parameters: s.Parameters(),
		Circulars:  s.Circulars(),
		Policy:     s.Policy(),
		Lists:      s.Lists(),
	}
}

// Parameters loads the Parameters table.
func (s *Store) Parameters() types.ParameterRows {
	return s.Load(types.TableParameters).(types.ParameterRows)
}

// Circulars loads the Circulars table.
func (s *Store) Circulars() types.CircularRows {
	return s.Load(types.TableCirculars).(types.CircularRows)
}

// Policy loads the Policy table.
func (s *Store) Policy() types.PolicyRows {
	return s.Load(types.TablePolicy).(types.PolicyRows)
}

// Lists loads the Lists table.
func (s *Store) Lists() types.ListRows {
	return s.Load(types.TableLists).(types.ListRows)
}

// Save overwrites the file for the table rows belongs to. The write is
// atomic: on failure the previous file is left intact and a *WriteError is
// returned. Save does not back up; callers that need a rollback copy take
// one first.
func (s *Store) Save(rows types.Rows) error {
	if rows == nil || !canonical(rows) {
		return fmt.Errorf("save: %w", types.ErrInvalidData)
	}
	id := rows.Table()
	path := s.Path(id)

	if err := writeCSV(path, rows.Header(), rows.Records()); err != nil {
		metrics.TableSaves.WithLabelValues(string(id), "failed").Inc()
		return &WriteError{Table: id, Path: path, Err: err}
	}
	metrics.TableSaves.WithLabelValues(string(id), "ok").Inc()
	s.log.Info("table saved", zap.String("table", string(id)), zap.Int("rows", rows.Len()))

	if s.cached {
		s.mu.Lock()
		s.cache[id] = cloneRows(rows)
		s.mu.Unlock()
	}
	return nil
}

// Invalidate drops cached tables so the next Load re-reads the files. With
// no ids every table is dropped.
func (s *Store) Invalidate(ids ...types.TableID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ids) == 0 {
		s.cache = make(map[types.TableID]types.Rows)
		return
	}
	for _, id := range ids {
		delete(s.cache, id)
	}
}

// Seed writes the built-in content for every table whose file does not
// exist yet and returns the tables it wrote.
func (s *Store) Seed() ([]types.TableID, error) {
	var seeded []types.TableID
	for _, id := range types.StandardTables {
		_, err := os.Stat(s.Path(id))
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return seeded, fmt.Errorf("stat %s: %w", id, err)
		}
		if err := s.Save(Defaults(id)); err != nil {
			return seeded, err
		}
		seeded = append(seeded, id)
	}
	return seeded, nil
}
