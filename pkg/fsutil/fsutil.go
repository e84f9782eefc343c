// Package fsutil handles the file I/O side of fixing: reading lists with a
// size cap, detecting concurrent edits, sidecar backups and atomic writes.
// The lint engine never touches the filesystem; everything here exists for
// the runner and the CLI.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// MaxListSize caps how much of a filter list Read will load. Real lists top
// out around a few megabytes; anything past this is almost certainly not a
// filter list. Variable so tests can lower it.
var MaxListSize int64 = 64 << 20

// Sentinel errors for categorization via errors.Is.
var (
	ErrNotFound      = errors.New("file not found")
	ErrIsDirectory   = errors.New("path is a directory")
	ErrTooLarge      = errors.New("file exceeds size limit")
	ErrChangedOnDisk = errors.New("file changed on disk")
)

// Source is a filter list read from disk together with enough provenance to
// detect concurrent edits before fixes are written back through Commit.
type Source struct {
	Path    string
	Content []byte

	mode    os.FileMode
	modTime time.Time
	size    int64
	sum     [sha256.Size]byte
}

// Read loads the file at path. The returned Source remembers the file's
// stamp and content hash so a later Commit can refuse to clobber edits made
// while the lint was running.
func Read(ctx context.Context, path string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	stat, err := os.Stat(path)
	switch {
	case err == nil && stat.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Size() > MaxListSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, stat.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Source{
		Path:    path,
		Content: content,
		mode:    stat.Mode(),
		modTime: stat.ModTime(),
		size:    stat.Size(),
		sum:     sha256.Sum256(content),
	}, nil
}

// Mode returns the permission bits the file had when it was read.
func (s *Source) Mode() os.FileMode { return s.mode }

// Unchanged reports whether the file on disk still matches what was read.
// A matching stamp (mtime and size) is trusted; a moved stamp is decided by
// re-hashing the content, so a plain touch does not block fixes.
func (s *Source) Unchanged(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check %s: %w", s.Path, err)
	}

	stat, err := os.Stat(s.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if stat.ModTime().Equal(s.modTime) && stat.Size() == s.size {
		return true, nil
	}

	current, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(current) == s.sum, nil
}
