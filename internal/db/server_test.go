package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServerTestDB(t *testing.T) *ServerDB {
	t.Helper()
	database, err := NewServerDB(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestUsers(t *testing.T) {
	database := setupServerTestDB(t)

	user, err := database.CreateUser("alice", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.Active)

	byName, err := database.GetUserByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)
	assert.True(t, database.ValidatePassword(byName, "correct horse"))
	assert.False(t, database.ValidatePassword(byName, "wrong"))

	byID, err := database.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	missing, err := database.GetUserByUsername("bob")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = database.CreateUser("alice", "another password")
	assert.Error(t, err)
}

func TestNoteLifecycle(t *testing.T) {
	database := setupServerTestDB(t)
	alice, err := database.CreateUser("alice", "password1")
	require.NoError(t, err)
	bob, err := database.CreateUser("bob", "password2")
	require.NoError(t, err)

	created := time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC)
	note := ServerNote{
		ID:         "note-1",
		UserID:     alice.ID,
		Content:    "# Hello",
		CreatedAt:  created,
		ModifiedAt: created,
	}
	require.NoError(t, database.InsertNote(note))
	assert.ErrorIs(t, database.InsertNote(note), ErrNoteExists)

	got, err := database.GetNote("note-1", alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "# Hello", got.Content)
	assert.True(t, got.CreatedAt.Equal(created))

	hidden, err := database.GetNote("note-1", bob.ID)
	require.NoError(t, err)
	assert.Nil(t, hidden, "notes are scoped to their owner")

	note.Content = "# Hello again"
	note.ModifiedAt = created.Add(time.Minute)
	require.NoError(t, database.UpdateNote(note))

	foreign := note
	foreign.UserID = bob.ID
	assert.ErrorIs(t, database.UpdateNote(foreign), ErrNoteNotFound)

	list, err := database.ListNotesByUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "# Hello again", list[0].Content)
	assert.True(t, list[0].ModifiedAt.Equal(created.Add(time.Minute)))

	empty, err := database.ListNotesByUser(bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, database.DeleteNote("note-1", alice.ID))
	list, err = database.ListNotesByUser(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteNotesByUser(t *testing.T) {
	database := setupServerTestDB(t)
	alice, err := database.CreateUser("alice", "password1")
	require.NoError(t, err)
	bob, err := database.CreateUser("bob", "password2")
	require.NoError(t, err)

	now := time.Now()
	for _, n := range []ServerNote{
		{ID: "a1", UserID: alice.ID, CreatedAt: now, ModifiedAt: now},
		{ID: "a2", UserID: alice.ID, CreatedAt: now, ModifiedAt: now},
		{ID: "b1", UserID: bob.ID, CreatedAt: now, ModifiedAt: now},
	} {
		require.NoError(t, database.InsertNote(n))
	}

	removed, err := database.DeleteNotesByUser(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	remaining, err := database.ListNotesByUser(bob.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
