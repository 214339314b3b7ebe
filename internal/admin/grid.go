package admin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// Row is a grid row with a stable identifier. The identifier survives
// inserts and deletions around the row.
type Row[R any] struct {
	ID   string `json:"id"`
	Data R      `json:"data"`
}

// Grid is an editable table whose rows are addressed by ID rather than by
// position.
type Grid[R any] struct {
	rows []Row[R]
}

// NewGrid assigns a fresh ID to each row.
func NewGrid[S ~[]R, R any](rows S) *Grid[R] {
	g := &Grid[R]{rows: make([]Row[R], 0, len(rows))}
	for _, r := range rows {
		g.rows = append(g.rows, Row[R]{ID: generateID(), Data: r})
	}
	return g
}

// generateID returns a UUID v7, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Len returns the number of rows.
func (g *Grid[R]) Len() int { return len(g.rows) }

// Rows returns a copy of the rows in order.
func (g *Grid[R]) Rows() []Row[R] {
	return append([]Row[R](nil), g.rows...)
}

// Values returns the row data in order.
func (g *Grid[R]) Values() []R {
	out := make([]R, len(g.rows))
	for i, r := range g.rows {
		out[i] = r.Data
	}
	return out
}

func (g *Grid[R]) index(id string) (int, error) {
	for i, r := range g.rows {
		if r.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", types.ErrRowNotFound, id)
}

// Get returns the data of row id.
func (g *Grid[R]) Get(id string) (R, error) {
	i, err := g.index(id)
	if err != nil {
		var zero R
		return zero, err
	}
	return g.rows[i].Data, nil
}

// Update replaces the data of row id.
func (g *Grid[R]) Update(id string, data R) error {
	i, err := g.index(id)
	if err != nil {
		return err
	}
	g.rows[i].Data = data
	return nil
}

// Append adds a row at the end and returns its ID.
func (g *Grid[R]) Append(data R) string {
	id := generateID()
	g.rows = append(g.rows, Row[R]{ID: id, Data: data})
	return id
}

// Delete removes row id.
func (g *Grid[R]) Delete(id string) error {
	i, err := g.index(id)
	if err != nil {
		return err
	}
	g.rows = append(g.rows[:i], g.rows[i+1:]...)
	return nil
}

// DeleteLabels removes the rows named by position labels and returns how
// many were removed.
func (g *Grid[R]) DeleteLabels(labels []string) int {
	before := len(g.rows)
	g.rows = ResolveDeletions(g.rows, labels)
	return before - len(g.rows)
}
