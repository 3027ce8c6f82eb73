package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "volon.db")
	database, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, path
}

func TestGetItemMissing(t *testing.T) {
	database, _ := setupTestDB(t)

	value, ok, err := database.GetItem("volon")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetItemReplaces(t *testing.T) {
	database, _ := setupTestDB(t)

	require.NoError(t, database.SetItem("volon", `{"a":1}`))
	require.NoError(t, database.SetItem("volon", `{"b":2}`))

	value, ok, err := database.GetItem("volon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"b":2}`, value)
}

func TestRemoveItem(t *testing.T) {
	database, _ := setupTestDB(t)

	require.NoError(t, database.SetItem("volonDeletedNotes", "[]"))
	require.NoError(t, database.RemoveItem("volonDeletedNotes"))
	require.NoError(t, database.RemoveItem("never-set"))

	_, ok, err := database.GetItem("volonDeletedNotes")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValuesSurviveReopen(t *testing.T) {
	database, path := setupTestDB(t)
	require.NoError(t, database.SetItem("volon", "persisted"))
	require.NoError(t, database.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.GetItem("volon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)
}
