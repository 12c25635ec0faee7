package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE sync_records (id INTEGER PRIMARY KEY, kind TEXT, remote_id TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "sync_records")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["kind"])
	assert.Equal(t, "text", colMap["remote_id"])

	// PRAGMA table_info returns no rows for a table that does not exist.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE sync_records (id INTEGER PRIMARY KEY, Kind TEXT)").Error)

	missing, err := MissingColumns(db, "sync_records", []string{"id", "kind", "hash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hash"}, missing)
}
