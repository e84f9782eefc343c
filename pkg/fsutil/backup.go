package fsutil

import (
	"fmt"
	"os"
)

// BackupMode selects where backups go.
type BackupMode string

const (
	// BackupModeSidecar keeps the backup next to the original file.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to the original path in sidecar mode.
const BackupSuffix = ".fllint.bak"

// BackupConfig controls whether Commit saves the original before writing.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig disables backups; fllint only backs up when asked.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Enabled: false, Mode: BackupModeSidecar}
}

// BackupPath returns where the backup for path lives, or "" when the mode
// produces none.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// backup saves the source's original content. It is idempotent: an existing
// backup is never overwritten, so repeated fix runs keep the pre-fllint
// original rather than the output of the previous run.
func (s *Source) backup(cfg BackupConfig) error {
	if !cfg.Enabled {
		return nil
	}
	target := BackupPath(s.Path, cfg.Mode)
	if target == "" {
		return nil
	}

	if _, err := os.Stat(target); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat backup %s: %w", target, err)
	}

	if err := writeAtomic(target, s.Content, s.mode); err != nil {
		return fmt.Errorf("backup %s: %w", s.Path, err)
	}
	return nil
}
