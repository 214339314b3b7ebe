package csvstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// MigrationReport lists the files moved out of the legacy location and the
// problems met along the way. Warnings never stop startup.
type MigrationReport struct {
	Moved    []string
	Warnings []error
}

// MigrateLegacy moves each table file found in the legacy directory into the
// config directory, unless the config directory already has that file. The
// legacy copy of a file that already exists in the config directory is left
// untouched.
func (s *Store) MigrateLegacy() MigrationReport {
	var report MigrationReport
	if s.legacyDir == "" {
		return report
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		report.Warnings = append(report.Warnings, fmt.Errorf("create config dir: %w", err))
		s.log.Warn("could not create config directory", zap.String("dir", s.dir), zap.Error(err))
		return report
	}
	if sameDir(s.legacyDir, s.dir) {
		return report
	}

	for _, id := range types.StandardTables {
		name := id.FileName()
		src := filepath.Join(s.legacyDir, name)
		dst := s.Path(id)

		if _, err := os.Stat(src); err != nil {
			continue
		}
		if _, err := os.Stat(dst); err == nil {
			continue
		}

		if err := moveFile(src, dst); err != nil {
			err = fmt.Errorf("move %s to %s: %w", src, dst, err)
			report.Warnings = append(report.Warnings, err)
			s.log.Warn("legacy file not moved", zap.Error(err))
			continue
		}
		report.Moved = append(report.Moved, name)
		s.Invalidate(id)
	}

	if len(report.Moved) > 0 {
		s.log.Info("moved legacy files into config directory",
			zap.String("dir", s.dir), zap.Strings("files", report.Moved))
	}
	return report
}

func sameDir(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && aa == bb
}

// moveFile renames src to dst, falling back to copy-and-delete across
// filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return os.Remove(src)
}
