package types

import "errors"

// Rows is the common view over a table's rows. Each table's row slice type
// implements it so the store, the backup manager and the admin editor can
// work with any table without knowing its columns.
type Rows interface {
	// Table returns the table the rows belong to.
	Table() TableID

	// Header returns the CSV column names in canonical order.
	Header() []string

	// Records returns each row as CSV fields in Header order.
	Records() [][]string

	// Len returns the number of rows.
	Len() int

	// Describe returns the short text shown next to row i in deletion labels.
	Describe(i int) string
}

// Table errors.
var (
	ErrTableNotFound = errors.New("table not found")
	ErrInvalidData   = errors.New("invalid table data")
	ErrMissingColumn = errors.New("missing required column")
)

// Editing and lookup errors.
var (
	ErrRowNotFound     = errors.New("row not found")
	ErrSessionNotFound = errors.New("edit session not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBackupNotFound  = errors.New("backup not found")
)
