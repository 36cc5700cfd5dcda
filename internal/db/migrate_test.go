package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/jetbg/internal/testutil"
)

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpenDB_NoSchema(t *testing.T) {
	db, err := OpenDB(testutil.TempDBPath(t))
	require.NoError(t, err)
	defer db.Close()

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)
	assert.False(t, tableExists(t, db, "runs"))
}

func TestMigrateDownAndUp(t *testing.T) {
	db, err := NewDB(testutil.TempDBPath(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.MigrateDown())
	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.True(t, tableExists(t, db, "runs"))

	require.NoError(t, db.MigrateDown())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, tableExists(t, db, "runs"))

	require.NoError(t, db.MigrateUp())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, LatestVersion, version)
	require.NoError(t, db.RecordRun(&Run{Kind: "embed", Notes: "after re-migrate"}))
}

func TestNewDB_BadPath(t *testing.T) {
	_, err := NewDB(filepath.Join(t.TempDir(), "missing", "dir", "runs.db"))
	testutil.AssertError(t, err)
}

func TestMigrateForce(t *testing.T) {
	db, err := NewDB(testutil.TempDBPath(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.MigrateForce(1))
	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}
