package types

import "fmt"

// TableID names one of the four reference tables.
type TableID string

// Standard table identifiers.
const (
	TableParameters TableID = "parameters"
	TableCirculars  TableID = "circulars"
	TablePolicy     TableID = "policy"
	TableLists      TableID = "lists"
)

// StandardTables lists all standard tables in load order.
var StandardTables = []TableID{
	TableParameters,
	TableCirculars,
	TablePolicy,
	TableLists,
}

// FileName returns the CSV file name backing the table.
func (id TableID) FileName() string {
	return string(id) + ".csv"
}

// ParseTableID maps a table name to its TableID.
// Returns ErrTableNotFound for anything that is not a standard table.
func ParseTableID(name string) (TableID, error) {
	for _, id := range StandardTables {
		if string(id) == name {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrTableNotFound, name)
}

// Tables bundles one snapshot of all four reference tables.
type Tables struct {
	Parameters ParameterRows
	Circulars  CircularRows
	Policy     PolicyRows
	Lists      ListRows
}

// Get returns the rows for id.
func (t Tables) Get(id TableID) (Rows, error) {
	switch id {
	case TableParameters:
		return t.Parameters, nil
	case TableCirculars:
		return t.Circulars, nil
	case TablePolicy:
		return t.Policy, nil
	case TableLists:
		return t.Lists, nil
	default:
		return nil, ErrTableNotFound
	}
}

// Set replaces the rows of the table that rows belongs to.
func (t *Tables) Set(rows Rows) error {
	switch r := rows.(type) {
	case ParameterRows:
		t.Parameters = r
	case CircularRows:
		t.Circulars = r
	case PolicyRows:
		t.Policy = r
	case ListRows:
		t.Lists = r
	default:
		return ErrInvalidData
	}
	return nil
}
