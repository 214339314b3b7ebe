package types

import "strings"

// Circular column names.
const (
	ColCircularTitle = "Circular Title"
	ColLink          = "Link"
	ColEffectiveFrom = "Effective From"
	ColActive        = "Active"
)

// Circular references a policy document that governs a parameter.
type Circular struct {
	Parameter     string `json:"parameter"`
	Title         string `json:"circular_title"`
	Link          string `json:"link"`
	EffectiveFrom string `json:"effective_from"`
	Active        string `json:"active"`
}

// IsActive reports whether the Active marker is "yes" in any letter case.
// Surrounding whitespace is significant: " Yes" is not active.
func (c Circular) IsActive() bool {
	return strings.ToLower(c.Active) == "yes"
}

// CircularRows is the Circulars table in file order.
type CircularRows []Circular

func (CircularRows) Table() TableID { return TableCirculars }

func (CircularRows) Header() []string {
	return []string{ColParameter, ColCircularTitle, ColLink, ColEffectiveFrom, ColActive}
}

func (r CircularRows) Records() [][]string {
	out := make([][]string, len(r))
	for i, c := range r {
		out[i] = []string{c.Parameter, c.Title, c.Link, c.EffectiveFrom, c.Active}
	}
	return out
}

func (r CircularRows) Len() int { return len(r) }

func (r CircularRows) Describe(i int) string {
	return r[i].Parameter + " | " + r[i].Title
}
