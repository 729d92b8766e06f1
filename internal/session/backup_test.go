package session

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackup(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "session.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("db-bytes"), 0o644))

	backupDir := filepath.Join(dir, "backups")
	svc := NewBackupService(dbPath, BackupConfig{Enabled: true, StoragePath: backupDir}, zerolog.New(io.Discard))

	require.NoError(t, svc.PerformBackup())

	files, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(backupDir, files[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "db-bytes", string(data))
}

func TestBackupDefaultStoragePath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "session.db")
	svc := NewBackupService(dbPath, BackupConfig{}, zerolog.New(io.Discard))
	assert.Equal(t, filepath.Join(filepath.Dir(dbPath), "backups"), svc.config.StoragePath)
}

func TestCleanupOldBackups(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "session_old.db")
	fresh := filepath.Join(dir, "session_fresh.db")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("fresh"), 0o644))

	stale := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, stale, stale))

	svc := NewBackupService("unused.db", BackupConfig{StoragePath: dir, RetentionDays: 14}, zerolog.New(io.Discard))
	svc.CleanupOldBackups()

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}
