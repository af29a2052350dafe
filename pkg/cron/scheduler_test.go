package cron

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBackupStore(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "learned_patterns.json")
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.WriteFile(storePath, []byte(`{"merchant_mappings":{}}`), 0o644))

	s := NewScheduler(storePath, backupDir, "0 3 * * *", testLogger())
	s.backupStore()

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "learned_patterns-")

	data, err := os.ReadFile(filepath.Join(backupDir, entries[0].Name()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"merchant_mappings":{}}`, string(data))
}

func TestBackupStoreMissingFile(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")

	s := NewScheduler(filepath.Join(dir, "absent.json"), backupDir, "0 3 * * *", testLogger())
	s.backupStore()

	_, err := os.Stat(backupDir)
	assert.True(t, os.IsNotExist(err), "no backup directory should be created")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler("store.json", "backups", "not a schedule", testLogger())
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	dir := t.TempDir()
	s := NewScheduler(filepath.Join(dir, "store.json"), filepath.Join(dir, "backups"), "@daily", testLogger())

	require.NoError(t, s.Start())
	s.Stop()
}
