// Package types defines the reference tables of the tender checklist, the row
// collections that move between the CSV store, the lookup engine and the admin
// editor, and the standard errors shared by those packages.
package types
