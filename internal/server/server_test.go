package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/nzaccagnino/volon/internal/auth"
	"github.com/nzaccagnino/volon/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := db.NewServerDB(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	srv := New(database, auth.NewJWTManager("test-secret", time.Hour),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRateLimits(NewRateLimiter(1000, time.Minute), NewRateLimiter(1000, time.Minute)),
	)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func register(t *testing.T, ts *httptest.Server, username string) LoginResponse {
	t.Helper()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", Credentials{Username: username, Password: "password123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out
}

func record(id, content string) NoteRecord {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)
	return NoteRecord{ID: id, CreatedAt: ts, ModifiedAt: ts, Content: content}
}

func listNotes(t *testing.T, ts *httptest.Server, token string) []NoteRecord {
	t.Helper()

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/notes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out NoteListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Notes
}

func TestHealth(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := setupServer(t)
	reg := register(t, ts, "alice")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", Credentials{Username: "alice", Password: "password123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", Credentials{Username: "bob", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", Credentials{Username: "alice", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", Credentials{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	assert.Equal(t, reg.UserID, login.UserID)
	assert.Equal(t, "alice", login.Username)
}

func TestNotesRequireToken(t *testing.T) {
	ts := setupServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/notes", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNoteLifecycle(t *testing.T) {
	ts := setupServer(t)
	alice := register(t, ts, "alice")

	assert.Empty(t, listNotes(t, ts, alice.Token))

	rec := record("n1", "# First")
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/notes", alice.Token, rec)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/notes", alice.Token, rec)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	notes := listNotes(t, ts, alice.Token)
	require.Len(t, notes, 1)
	assert.Equal(t, alice.UserID, notes[0].UserID)
	assert.True(t, rec.CreatedAt.Equal(notes[0].CreatedAt))

	rec.Content = "# First, edited"
	rec.ModifiedAt = rec.ModifiedAt.Add(time.Minute)
	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/notes/n1", alice.Token, rec)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	notes = listNotes(t, ts, alice.Token)
	require.Len(t, notes, 1)
	assert.Equal(t, "# First, edited", notes[0].Content)
	assert.True(t, rec.ModifiedAt.Equal(notes[0].ModifiedAt))

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/notes/missing", alice.Token, rec)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/notes/n1", alice.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, listNotes(t, ts, alice.Token))
}

func TestNotesAreScopedToUser(t *testing.T) {
	ts := setupServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/notes", alice.Token, record("a1", "alice's"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Empty(t, listNotes(t, ts, bob.Token))

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/notes/a1", bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/notes/a1", bob.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, listNotes(t, ts, alice.Token), 1)

	forged := record("b1", "forged")
	forged.UserID = alice.UserID
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/notes", bob.Token, forged)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteAllNotes(t *testing.T) {
	ts := setupServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")

	for _, id := range []string{"a1", "a2", "a3"} {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/notes", alice.Token, record(id, id))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/notes", bob.Token, record("b1", "b1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/notes", alice.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(3), out["deleted"])

	assert.Empty(t, listNotes(t, ts, alice.Token))
	assert.Len(t, listNotes(t, ts, bob.Token), 1)
}

func TestCreateRejectsBadRecords(t *testing.T) {
	ts := setupServer(t)
	alice := register(t, ts, "alice")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/notes", alice.Token, record("", "no id"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/notes", alice.Token, NoteRecord{ID: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
