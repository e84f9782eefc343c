package fsutil

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupPath(t *testing.T) {
	assert.Equal(t, "list.txt"+BackupSuffix, BackupPath("list.txt", BackupModeSidecar))
	assert.Empty(t, BackupPath("list.txt", BackupModeNone))
}

func TestCommitWithBackupSavesOriginal(t *testing.T) {
	original := "||ads.example^$a,a\n"
	path := writeList(t, t.TempDir(), "list.txt", original)
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	cfg := BackupConfig{Enabled: true, Mode: BackupModeSidecar}
	_, err = src.Commit(context.Background(), []byte("||ads.example^$a\n"), cfg)
	require.NoError(t, err)

	saved, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, original, string(saved))
}

func TestBackupKeepsFirstOriginal(t *testing.T) {
	// Two fix runs: the backup must hold the pre-fllint content, not the
	// output of run one.
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^$a,a,a\n")
	cfg := BackupConfig{Enabled: true, Mode: BackupModeSidecar}

	src, err := Read(context.Background(), path)
	require.NoError(t, err)
	_, err = src.Commit(context.Background(), []byte("||ads.example^$a,a\n"), cfg)
	require.NoError(t, err)

	src, err = Read(context.Background(), path)
	require.NoError(t, err)
	_, err = src.Commit(context.Background(), []byte("||ads.example^$a\n"), cfg)
	require.NoError(t, err)

	saved, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "||ads.example^$a,a,a\n", string(saved))
}

func TestBackupDisabledWritesNothing(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^$a,a\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	_, err = src.Commit(context.Background(), []byte("||ads.example^$a\n"), DefaultBackupConfig())
	require.NoError(t, err)

	_, err = os.Stat(path + BackupSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestBackupModeNoneWritesNothing(t *testing.T) {
	path := writeList(t, t.TempDir(), "list.txt", "||ads.example^$a,a\n")
	src, err := Read(context.Background(), path)
	require.NoError(t, err)

	cfg := BackupConfig{Enabled: true, Mode: BackupModeNone}
	_, err = src.Commit(context.Background(), []byte("||ads.example^$a\n"), cfg)
	require.NoError(t, err)

	_, err = os.Stat(path + BackupSuffix)
	assert.True(t, os.IsNotExist(err))
}
