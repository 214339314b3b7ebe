// Package admin edits the reference tables. Edits are collected in a
// session, then written table by table: each file is backed up before it is
// overwritten and a failed write never undoes the tables already saved.
package admin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// RowLabels returns the deletion label of every row: "<index>: <describe>".
func RowLabels(rows types.Rows) []string {
	labels := make([]string, rows.Len())
	for i := range labels {
		labels[i] = fmt.Sprintf("%d: %s", i, rows.Describe(i))
	}
	return labels
}

// ParseLabel returns the row index a label starts with. Text after the first
// colon is ignored.
func ParseLabel(label string) (int, bool) {
	head, _, _ := strings.Cut(label, ":")
	i, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return i, true
}

// selected returns the set of row indices named by labels. Labels that do not
// parse or fall outside [0, n) are skipped.
func selected(labels []string, n int) map[int]bool {
	set := make(map[int]bool, len(labels))
	for _, l := range labels {
		i, ok := ParseLabel(l)
		if !ok || i < 0 || i >= n {
			continue
		}
		set[i] = true
	}
	return set
}

// ResolveDeletions returns rows without the rows the labels point at. The
// result is a new slice in the original order; rows is not modified.
func ResolveDeletions[S ~[]E, E any](rows S, labels []string) S {
	drop := selected(labels, len(rows))
	out := make(S, 0, len(rows)-len(drop))
	for i, r := range rows {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return out
}

// deleteFromRows applies ResolveDeletions to any table's rows.
func deleteFromRows(rows types.Rows, labels []string) (types.Rows, error) {
	switch r := rows.(type) {
	case types.ParameterRows:
		return ResolveDeletions(r, labels), nil
	case types.HelpRows:
		return ResolveDeletions(r, labels), nil
	case types.CircularRows:
		return ResolveDeletions(r, labels), nil
	case types.PolicyRows:
		return ResolveDeletions(r, labels), nil
	case types.ListRows:
		return ResolveDeletions(r, labels), nil
	default:
		return nil, types.ErrInvalidData
	}
}
