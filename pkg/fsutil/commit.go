package fsutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Commit writes fixed content back to the file the source was read from.
// It is the whole safety pipeline in one call: identical content is a no-op,
// a file that no longer matches the source fails with ErrChangedOnDisk, a
// sidecar backup of the original is taken per cfg, and the write itself is
// atomic with the original mode preserved. Reports whether the file was
// written.
func (s *Source) Commit(ctx context.Context, content []byte, cfg BackupConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("commit %s: %w", s.Path, err)
	}

	if bytes.Equal(content, s.Content) {
		return false, nil
	}

	same, err := s.Unchanged(ctx)
	if err != nil {
		return false, err
	}
	if !same {
		return false, fmt.Errorf("%w: %s, fixes not written", ErrChangedOnDisk, s.Path)
	}

	if err := s.backup(cfg); err != nil {
		return false, err
	}

	if err := writeAtomic(s.Path, content, s.mode); err != nil {
		return false, fmt.Errorf("commit %s: %w", s.Path, err)
	}
	return true, nil
}

// writeAtomic writes via a temp file in the target's directory followed by a
// rename, so readers never observe a half-written list.
func writeAtomic(path string, content []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	write := func() error {
		if _, err := tmp.Write(content); err != nil {
			return err
		}
		if err := tmp.Sync(); err != nil {
			return err
		}
		if err := tmp.Close(); err != nil {
			return err
		}
		if err := os.Chmod(tmpPath, mode); err != nil {
			return err
		}
		return os.Rename(tmpPath, path)
	}

	if err := write(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
