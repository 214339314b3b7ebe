package csvstore

import (
	"fmt"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// columns maps header names to their position in a record.
type columns map[string]int

func indexHeader(header []string) columns {
	cols := make(columns, len(header))
	for i, name := range header {
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

// require fails when the key column of a table is absent.
func (c columns) require(name string) error {
	if _, ok := c[name]; !ok {
		return fmt.Errorf("%w %q", types.ErrMissingColumn, name)
	}
	return nil
}

// get returns the cell for column name, or "" when the column or the cell is
// absent.
func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// decode turns CSV records into the typed rows of table id. Columns are
// matched by header name; unknown columns are ignored and missing non-key
// columns read as empty strings.
func decode(id types.TableID, header []string, records [][]string) (types.Rows, error) {
	cols := indexHeader(header)

	switch id {
	case types.TableParameters:
		if err := cols.require(types.ColParameter); err != nil {
			return nil, err
		}
		rows := make(types.ParameterRows, 0, len(records))
		for _, rec := range records {
			rows = append(rows, types.Parameter{
				Name:  cols.get(rec, types.ColParameter),
				Value: cols.get(rec, types.ColValue),
				Help:  cols.get(rec, types.ColHelp),
			})
		}
		return rows, nil

	case types.TableCirculars:
		if err := cols.require(types.ColParameter); err != nil {
			return nil, err
		}
		rows := make(types.CircularRows, 0, len(records))
		for _, rec := range records {
			rows = append(rows, types.Circular{
				Parameter:     cols.get(rec, types.ColParameter),
				Title:         cols.get(rec, types.ColCircularTitle),
				Link:          cols.get(rec, types.ColLink),
				EffectiveFrom: cols.get(rec, types.ColEffectiveFrom),
				Active:        cols.get(rec, types.ColActive),
			})
		}
		return rows, nil

	case types.TablePolicy:
		if err := cols.require(types.ColRuleKey); err != nil {
			return nil, err
		}
		rows := make(types.PolicyRows, 0, len(records))
		for _, rec := range records {
			rows = append(rows, types.PolicyRule{
				RuleKey:   cols.get(rec, types.ColRuleKey),
				Threshold: cols.get(rec, types.ColThreshold),
			})
		}
		return rows, nil

	case types.TableLists:
		if err := cols.require(types.ColListName); err != nil {
			return nil, err
		}
		rows := make(types.ListRows, 0, len(records))
		for _, rec := range records {
			rows = append(rows, types.ListOption{
				ListName: cols.get(rec, types.ColListName),
				Value:    cols.get(rec, types.ColValue),
			})
		}
		return rows, nil

	default:
		return nil, types.ErrTableNotFound
	}
}

// DecodeCSV reads an edited table from a CSV file outside the store, such as
// an export an administrator changed by hand. The parameters table is decoded
// as its editable Parameter/Help grid.
func DecodeCSV(id types.TableID, path string) (types.Rows, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows, err := decode(id, header, records)
	if err != nil {
		return nil, err
	}
	if params, ok := rows.(types.ParameterRows); ok {
		return params.HelpView(), nil
	}
	return rows, nil
}

// canonical reports whether rows is one of the four stored row types. The
// Parameter/Help grid is not: saving it would drop the Value column.
func canonical(rows types.Rows) bool {
	switch rows.(type) {
	case types.ParameterRows, types.CircularRows, types.PolicyRows, types.ListRows:
		return true
	default:
		return false
	}
}

// cloneRows returns a copy of rows that shares no backing array.
func cloneRows(rows types.Rows) types.Rows {
	switch r := rows.(type) {
	case types.ParameterRows:
		return append(types.ParameterRows(nil), r...)
	case types.CircularRows:
		return append(types.CircularRows(nil), r...)
	case types.PolicyRows:
		return append(types.PolicyRows(nil), r...)
	case types.ListRows:
		return append(types.ListRows(nil), r...)
	case types.HelpRows:
		return append(types.HelpRows(nil), r...)
	default:
		return rows
	}
}
