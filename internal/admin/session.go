package admin

import (
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Session is one administrator's edit buffer over a snapshot of the tables.
// Rows carry stable IDs, so an edit always hits the row the administrator
// picked even after rows above it were added or removed. The parameters
// table is edited as its Parameter/Help projection.
type Session struct {
	ID      string
	Created time.Time

	mu         sync.Mutex
	parameters *Grid[types.ParameterHelp]
	circulars  *Grid[types.Circular]
	policy     *Grid[types.PolicyRule]
	lists      *Grid[types.ListOption]

	// origin maps a parameter row ID to the stored name it was loaded with.
	origin  map[string]string
	touched map[types.TableID]bool
}

// NewSession opens a session over tables.
func NewSession(tables types.Tables) *Session {
	s := &Session{
		ID:         generateID(),
		Created:    time.Now().UTC(),
		parameters: NewGrid(tables.Parameters.HelpView()),
		circulars:  NewGrid(tables.Circulars),
		policy:     NewGrid(tables.Policy),
		lists:      NewGrid(tables.Lists),
		origin:     make(map[string]string),
		touched:    make(map[types.TableID]bool),
	}
	for _, r := range s.parameters.rows {
		s.origin[r.ID] = r.Data.Name
	}
	return s
}

// Rows returns the current content of a table. The parameters table comes
// back as types.HelpRows.
func (s *Session) Rows(table types.TableID) (types.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows(table)
}

func (s *Session) rows(table types.TableID) (types.Rows, error) {
	switch table {
	case types.TableParameters:
		return types.HelpRows(s.parameters.Values()), nil
	case types.TableCirculars:
		return types.CircularRows(s.circulars.Values()), nil
	case types.TablePolicy:
		return types.PolicyRows(s.policy.Values()), nil
	case types.TableLists:
		return types.ListRows(s.lists.Values()), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
}

func (s *Session) ids(table types.TableID) []string {
	var ids []string
	switch table {
	case types.TableParameters:
		for _, r := range s.parameters.rows {
			ids = append(ids, r.ID)
		}
	case types.TableCirculars:
		for _, r := range s.circulars.rows {
			ids = append(ids, r.ID)
		}
	case types.TablePolicy:
		for _, r := range s.policy.rows {
			ids = append(ids, r.ID)
		}
	case types.TableLists:
		for _, r := range s.lists.rows {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// UpdateRow replaces the cells of row rowID. Columns missing from f become
// empty.
func (s *Session) UpdateRow(table types.TableID, rowID string, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch table {
	case types.TableParameters:
		var r types.ParameterHelp
		if r, err = helpFromFields(f); err == nil {
			err = s.parameters.Update(rowID, r)
		}
	case types.TableCirculars:
		var r types.Circular
		if r, err = circularFromFields(f); err == nil {
			err = s.circulars.Update(rowID, r)
		}
	case types.TablePolicy:
		var r types.PolicyRule
		if r, err = policyFromFields(f); err == nil {
			err = s.policy.Update(rowID, r)
		}
	case types.TableLists:
		var r types.ListOption
		if r, err = listFromFields(f); err == nil {
			err = s.lists.Update(rowID, r)
		}
	default:
		err = fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if err != nil {
		return err
	}
	s.touched[table] = true
	return nil
}

// AppendRow adds a row at the end of a table and returns its ID.
func (s *Session) AppendRow(table types.TableID, f Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		id  string
		err error
	)
	switch table {
	case types.TableParameters:
		var r types.ParameterHelp
		if r, err = helpFromFields(f); err == nil {
			id = s.parameters.Append(r)
		}
	case types.TableCirculars:
		var r types.Circular
		if r, err = circularFromFields(f); err == nil {
			id = s.circulars.Append(r)
		}
	case types.TablePolicy:
		var r types.PolicyRule
		if r, err = policyFromFields(f); err == nil {
			id = s.policy.Append(r)
		}
	case types.TableLists:
		var r types.ListOption
		if r, err = listFromFields(f); err == nil {
			id = s.lists.Append(r)
		}
	default:
		err = fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if err != nil {
		return "", err
	}
	s.touched[table] = true
	return id, nil
}

// DeleteRow removes row rowID.
func (s *Session) DeleteRow(table types.TableID, rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch table {
	case types.TableParameters:
		err = s.parameters.Delete(rowID)
	case types.TableCirculars:
		err = s.circulars.Delete(rowID)
	case types.TablePolicy:
		err = s.policy.Delete(rowID)
	case types.TableLists:
		err = s.lists.Delete(rowID)
	default:
		err = fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if err != nil {
		return err
	}
	s.touched[table] = true
	return nil
}

// DeleteLabels removes the rows named by "<index>: ..." labels, read against
// the table as it is now, and returns how many rows went.
func (s *Session) DeleteLabels(table types.TableID, labels []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	switch table {
	case types.TableParameters:
		n = s.parameters.DeleteLabels(labels)
	case types.TableCirculars:
		n = s.circulars.DeleteLabels(labels)
	case types.TablePolicy:
		n = s.policy.DeleteLabels(labels)
	case types.TableLists:
		n = s.lists.DeleteLabels(labels)
	default:
		return 0, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if n > 0 {
		s.touched[table] = true
	}
	return n, nil
}

// ReplaceTable swaps a whole table for rows, as when an administrator
// uploads an edited CSV. Parameter rows are given as types.HelpRows (or
// types.ParameterRows, whose Value is ignored); an uploaded row keeps the
// identity of the first unclaimed row with the same name.
func (s *Session) ReplaceTable(rows types.Rows) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r := rows.(type) {
	case types.ParameterRows:
		s.replaceParameters(r.HelpView())
	case types.HelpRows:
		s.replaceParameters(r)
	case types.CircularRows:
		s.circulars = NewGrid(r)
	case types.PolicyRows:
		s.policy = NewGrid(r)
	case types.ListRows:
		s.lists = NewGrid(r)
	default:
		return types.ErrInvalidData
	}
	s.touched[rows.Table()] = true
	return nil
}

func (s *Session) replaceParameters(rows types.HelpRows) {
	free := make(map[string][]string)
	for _, r := range s.parameters.rows {
		free[r.Data.Name] = append(free[r.Data.Name], r.ID)
	}

	g := &Grid[types.ParameterHelp]{rows: make([]Row[types.ParameterHelp], 0, len(rows))}
	for _, p := range rows {
		var id string
		if ids := free[p.Name]; len(ids) > 0 {
			id, free[p.Name] = ids[0], ids[1:]
		} else {
			id = generateID()
		}
		g.rows = append(g.rows, Row[types.ParameterHelp]{ID: id, Data: p})
	}
	s.parameters = g
}

// Touched lists the tables changed in this session in standard order.
func (s *Session) Touched() []types.TableID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedTables()
}

func (s *Session) touchedTables() []types.TableID {
	var out []types.TableID
	for _, id := range types.StandardTables {
		if s.touched[id] {
			out = append(out, id)
		}
	}
	return out
}

// Edits returns the changed tables ready for Editor.SaveAll. Untouched
// tables are left nil.
func (s *Session) Edits() Edits {
	s.mu.Lock()
	defer s.mu.Unlock()

	var e Edits
	if s.touched[types.TableParameters] {
		e.Parameters = make([]ParameterEdit, 0, s.parameters.Len())
		for _, r := range s.parameters.rows {
			e.Parameters = append(e.Parameters, ParameterEdit{Origin: s.origin[r.ID], ParameterHelp: r.Data})
		}
	}
	if s.touched[types.TableCirculars] {
		e.Circulars = types.CircularRows(s.circulars.Values())
	}
	if s.touched[types.TablePolicy] {
		e.Policy = types.PolicyRows(s.policy.Values())
	}
	if s.touched[types.TableLists] {
		e.Lists = types.ListRows(s.lists.Values())
	}
	return e
}

// RowView is one row as shown to a client.
type RowView struct {
	ID     string `json:"id,omitempty"`
	Label  string `json:"label"`
	Fields Fields `json:"fields"`
}

// TableView is one table of a session.
type TableView struct {
	Table  types.TableID `json:"table"`
	Header []string      `json:"header"`
	Rows   []RowView     `json:"rows"`
}

// View is a read-only copy of a session.
type View struct {
	ID      string          `json:"id"`
	Created time.Time       `json:"created"`
	Touched []types.TableID `json:"touched"`
	Tables  []TableView     `json:"tables"`
}

// View returns the session's current state with row IDs and labels.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{ID: s.ID, Created: s.Created, Touched: s.touchedTables()}
	if v.Touched == nil {
		v.Touched = []types.TableID{}
	}
	for _, id := range types.StandardTables {
		rows, _ := s.rows(id)
		tv := ViewRows(rows)
		for i, rowID := range s.ids(id) {
			tv.Rows[i].ID = rowID
		}
		v.Tables = append(v.Tables, tv)
	}
	return v
}

// ViewRows shows rows with their deletion labels and no row IDs.
func ViewRows(rows types.Rows) TableView {
	labels := RowLabels(rows)
	header := rows.Header()
	tv := TableView{Table: rows.Table(), Header: header, Rows: make([]RowView, rows.Len())}
	for i, rec := range rows.Records() {
		tv.Rows[i] = RowView{Label: labels[i], Fields: rowFields(header, rec)}
	}
	return tv
}
