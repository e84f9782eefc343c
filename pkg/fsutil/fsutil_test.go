package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadReturnsContentAndMode(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^\n")

	src, err := Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "||ads.example^\n", string(src.Content))
	assert.Equal(t, os.FileMode(0o644), src.Mode().Perm())
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReadDirectory(t *testing.T) {
	_, err := Read(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrIsDirectory)
}

func TestReadSizeCap(t *testing.T) {
	// Not parallel: lowers the package-level cap.
	old := MaxListSize
	MaxListSize = 8
	t.Cleanup(func() { MaxListSize = old })

	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^$script\n")
	_, err := Read(context.Background(), path)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestReadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^\n")
	_, err := Read(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestUnchangedTrustsMatchingStamp(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	same, err := src.Unchanged(context.Background())
	require.NoError(t, err)
	assert.True(t, same)
}

func TestUnchangedDetectsEdit(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("||track.example^\n"), 0o644))

	same, err := src.Unchanged(context.Background())
	require.NoError(t, err)
	assert.False(t, same)
}

func TestUnchangedDetectsDeletion(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	same, err := src.Unchanged(context.Background())
	require.NoError(t, err)
	assert.False(t, same)
}

func TestUnchangedSurvivesTouch(t *testing.T) {
	// A moved stamp with identical content must not block fixes.
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	same, err := src.Unchanged(context.Background())
	require.NoError(t, err)
	assert.True(t, same)
}

func TestCommitWritesFixedContent(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^$a,a\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	written, err := src.Commit(context.Background(), []byte("||ads.example^$a\n"), DefaultBackupConfig())
	require.NoError(t, err)
	assert.True(t, written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "||ads.example^$a\n", string(got))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), stat.Mode().Perm())
}

func TestCommitIdenticalContentIsNoOp(t *testing.T) {
	content := "||ads.example^\n"
	path := writeList(t, t.TempDir(), "list.txt", content)
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	before, err := os.Stat(path)
	require.NoError(t, err)

	written, err := src.Commit(context.Background(), []byte(content), DefaultBackupConfig())
	require.NoError(t, err)
	assert.False(t, written)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestCommitRefusesConcurrentEdit(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^$a,a\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	edited := "! edited while linting\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	written, err := src.Commit(context.Background(), []byte("||ads.example^$a\n"), DefaultBackupConfig())
	require.ErrorIs(t, err, ErrChangedOnDisk)
	assert.False(t, written)

	// The concurrent edit is preserved.
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, string(got))
}
