package csvstore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// ErrNoHeader is returned for a file with no header row.
var ErrNoHeader = errors.New("missing header row")

// LoadError reports why a table file could not be read. Missing files and
// corrupt files are both LoadErrors; Missing tells them apart.
type LoadError struct {
	Table types.TableID
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Table, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Missing reports whether the file simply does not exist.
func (e *LoadError) Missing() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// WriteError reports a failed save. The caller must keep its edit buffer so
// the user can retry.
type WriteError struct {
	Table types.TableID
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save %s to %s: %v", e.Table, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
