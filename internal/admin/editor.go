package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/logging"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Store loads and saves tables.
type Store interface {
	Load(id types.TableID) types.Rows
	Save(rows types.Rows) error
}

// Backuper copies a table's file aside before it is overwritten.
type Backuper interface {
	Backup(ctx context.Context, id types.TableID) (string, error)
}

// ParameterEdit is one row of the edited Parameter/Help grid. Origin is the
// stored name the row was loaded with, or "" for a row added while editing.
type ParameterEdit struct {
	Origin string `json:"origin,omitempty"`
	types.ParameterHelp
}

// ParameterEditsByName treats each row of an uploaded grid as the stored
// row of the same name.
func ParameterEditsByName(rows types.HelpRows) []ParameterEdit {
	out := make([]ParameterEdit, len(rows))
	for i, r := range rows {
		out[i] = ParameterEdit{Origin: r.Name, ParameterHelp: r}
	}
	return out
}

// Edits holds edited tables. A nil table is left as it is on disk; an empty
// non-nil table is saved empty.
type Edits struct {
	Circulars  types.CircularRows
	Lists      types.ListRows
	Parameters []ParameterEdit
	Policy     types.PolicyRows
}

// Empty reports whether no table is edited.
func (e Edits) Empty() bool {
	return e.Circulars == nil && e.Lists == nil && e.Parameters == nil && e.Policy == nil
}

// saveOrder is the order tables are written in.
var saveOrder = []types.TableID{
	types.TableCirculars,
	types.TableLists,
	types.TableParameters,
	types.TablePolicy,
}

// TableFailure records a table that could not be written.
type TableFailure struct {
	Table types.TableID `json:"table"`
	Error string        `json:"error"`
}

// SaveReport describes what a save did. Backups lists the backup copies
// taken; Warnings holds backup problems, which never stop a save.
type SaveReport struct {
	Saved    []types.TableID `json:"saved"`
	Backups  []string        `json:"backups"`
	Warnings []string        `json:"warnings"`
	Failed   []TableFailure  `json:"failed"`
}

// OK reports whether every table was written.
func (r *SaveReport) OK() bool { return len(r.Failed) == 0 }

func newReport() *SaveReport {
	return &SaveReport{
		Saved:    []types.TableID{},
		Backups:  []string{},
		Warnings: []string{},
		Failed:   []TableFailure{},
	}
}

// Editor writes edited tables back to the store.
type Editor struct {
	store   Store
	backups Backuper
	merge   string
	log     *zap.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithMergePolicy selects how the edited Parameter/Help grid is joined back
// onto the stored Value column: types.MergePreserve (default) or
// types.MergeLeftJoin.
func WithMergePolicy(policy string) Option {
	return func(e *Editor) {
		if policy != "" {
			e.merge = policy
		}
	}
}

// WithLogger sets the editor's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// NewEditor returns an Editor over store. backups may be nil to skip
// backups.
func NewEditor(store Store, backups Backuper, opts ...Option) *Editor {
	e := &Editor{store: store, backups: backups, merge: types.MergePreserve}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.OrNop(e.log)
	return e
}

// SaveAll writes every edited table: each is backed up, then saved. A write
// failure is recorded and the remaining tables are still attempted; tables
// already written stay written. The returned error joins every write
// failure and is nil when all tables were saved.
func (e *Editor) SaveAll(ctx context.Context, edits Edits) (*SaveReport, error) {
	report := newReport()
	var errs []error

	for _, id := range saveOrder {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		rows, ok := e.rowsFor(id, edits)
		if !ok {
			continue
		}
		if err := e.write(ctx, rows, report); err != nil {
			errs = append(errs, err)
		}
	}
	return report, errors.Join(errs...)
}

// SaveSession saves the tables a session changed.
func (e *Editor) SaveSession(ctx context.Context, s *Session) (*SaveReport, error) {
	return e.SaveAll(ctx, s.Edits())
}

func (e *Editor) rowsFor(id types.TableID, edits Edits) (types.Rows, bool) {
	switch id {
	case types.TableCirculars:
		return edits.Circulars, edits.Circulars != nil
	case types.TableLists:
		return edits.Lists, edits.Lists != nil
	case types.TablePolicy:
		return edits.Policy, edits.Policy != nil
	case types.TableParameters:
		if edits.Parameters == nil {
			return nil, false
		}
		stored, _ := e.store.Load(types.TableParameters).(types.ParameterRows)
		return MergeParameters(stored, edits.Parameters, e.merge), true
	default:
		return nil, false
	}
}

// DeleteRows removes rows from the stored table by position label, then
// backs up and saves it. Nothing is written when no label names a row.
func (e *Editor) DeleteRows(ctx context.Context, id types.TableID, labels []string) (*SaveReport, error) {
	report := newReport()
	rows := e.store.Load(id)
	if rows == nil {
		return report, fmt.Errorf("%w: %s", types.ErrTableNotFound, id)
	}
	remaining, err := deleteFromRows(rows, labels)
	if err != nil {
		return report, err
	}
	if remaining.Len() == rows.Len() {
		e.log.Info("no rows matched deletion labels", zap.String("table", string(id)))
		return report, nil
	}
	return report, e.write(ctx, remaining, report)
}

// write backs up and saves one table, recording the outcome in report.
func (e *Editor) write(ctx context.Context, rows types.Rows, report *SaveReport) error {
	id := rows.Table()

	if e.backups != nil {
		path, err := e.backups.Backup(ctx, id)
		switch {
		case err != nil:
			msg := fmt.Sprintf("backup of %s failed: %v", id, err)
			report.Warnings = append(report.Warnings, msg)
			e.log.Warn("backup failed, saving anyway", zap.String("table", string(id)), zap.Error(err))
		case path != "":
			report.Backups = append(report.Backups, path)
		}
	}

	if err := e.store.Save(rows); err != nil {
		report.Failed = append(report.Failed, TableFailure{Table: id, Error: err.Error()})
		e.log.Error("table save failed", zap.String("table", string(id)), zap.Error(err))
		return err
	}
	report.Saved = append(report.Saved, id)
	return nil
}

// MergeParameters rebuilds the Parameters table from the stored rows and the
// edited Parameter/Help grid.
//
// With types.MergeLeftJoin every stored row is kept in stored order with its
// Value, and takes the Help of the first edited row of the same name, or ""
// when the grid has none; edited rows with new names are dropped. A name
// repeated in the grid does not duplicate the stored row; later repeats are
// ignored on purpose.
//
// With types.MergePreserve the grid decides which rows exist and in what
// order. A row keeps the Value of the stored row it was loaded from, even if
// it was renamed; a new row starts with an empty Value.
func MergeParameters(stored types.ParameterRows, edits []ParameterEdit, policy string) types.ParameterRows {
	if policy == types.MergeLeftJoin {
		help := make(map[string]string, len(edits))
		for _, e := range edits {
			if _, seen := help[e.Name]; !seen {
				help[e.Name] = e.Help
			}
		}
		out := make(types.ParameterRows, len(stored))
		for i, p := range stored {
			out[i] = types.Parameter{Name: p.Name, Value: p.Value, Help: help[p.Name]}
		}
		return out
	}

	out := make(types.ParameterRows, 0, len(edits))
	for _, e := range edits {
		var value string
		if e.Origin != "" {
			if p, ok := stored.Find(e.Origin); ok {
				value = p.Value
			}
		}
		out = append(out, types.Parameter{Name: e.Name, Value: value, Help: e.Help})
	}
	return out
}
