// This file loads a table snapshot into the in-memory database.
package lookup

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// tableMapping maps each reference table to its SQLite table and the columns
// filled from the row's CSV record, in Header order.
var tableMapping = []struct {
	id      types.TableID
	table   string
	columns []string
}{
	{types.TableParameters, "parameters", []string{"name", "value", "help"}},
	{types.TableCirculars, "circulars", []string{"parameter", "title", "link", "effective_from", "active"}},
	{types.TablePolicy, "policy", []string{"rule_key", "threshold"}},
	{types.TableLists, "lists", []string{"list_name", "value"}},
}

// loadTables inserts every row of tables in a single transaction. A table
// the snapshot leaves nil loads as empty.
func loadTables(db *sql.DB, tables types.Tables) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range tableMapping {
		rows, err := tables.Get(mapping.id)
		if err != nil {
			return err
		}
		if rows == nil || rows.Len() == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, rows.Records()); err != nil {
			return fmt.Errorf("loading %s: %w", mapping.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

func insertRecords(tx *sql.Tx, table string, columns []string, records [][]string) error {
	placeholders := make([]string, len(columns)+1)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (ordinal, %s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		args := make([]any, 0, len(columns)+1)
		args = append(args, i)
		for j := range columns {
			args = append(args, rec[j])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}
	return nil
}
