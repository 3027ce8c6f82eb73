package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/nzaccagnino/volon/internal/auth"
	"github.com/nzaccagnino/volon/internal/db"
	"github.com/nzaccagnino/volon/internal/notes"
	"github.com/nzaccagnino/volon/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRemote(t *testing.T) *Client {
	t.Helper()

	database, err := db.NewServerDB(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	srv := server.New(database, auth.NewJWTManager("test-secret", time.Hour),
		server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		server.WithRateLimits(server.NewRateLimiter(1000, time.Minute), server.NewRateLimiter(1000, time.Minute)),
	)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/")
}

func TestClientRegisterLogin(t *testing.T) {
	ctx := context.Background()
	c := setupRemote(t)
	require.NoError(t, c.Ping(ctx))
	assert.False(t, c.SignedIn())

	reg, err := c.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.True(t, c.SignedIn())
	assert.Equal(t, reg.UserID, c.UserID())
	assert.Equal(t, "alice", c.Username())

	c.ClearSession()
	assert.False(t, c.SignedIn())

	_, err = c.Login(ctx, "alice", "nope-nope-nope")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
	assert.Equal(t, "invalid credentials", statusErr.Message)
	assert.False(t, c.SignedIn())

	login, err := c.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.UserID)
	assert.True(t, c.SignedIn())
}

func TestRemoteLifecycle(t *testing.T) {
	ctx := context.Background()
	c := setupRemote(t)
	_, err := c.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	remote := NewRemote(c)

	all, err := remote.FetchAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	n := notes.New("# Remote")
	require.NoError(t, remote.Create(ctx, n))

	err = remote.Create(ctx, n)
	assert.ErrorIs(t, err, notes.ErrRemoteOperationFailed)

	n.Content = "# Remote, edited"
	n.LastModified = n.LastModified.Add(time.Second)
	require.NoError(t, remote.Update(ctx, n))

	all, err = remote.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, n.ID, all[0].ID)
	assert.Equal(t, "# Remote, edited", all[0].Content)
	assert.True(t, n.DateCreated.Equal(all[0].DateCreated))
	assert.True(t, n.LastModified.Equal(all[0].LastModified))

	require.NoError(t, remote.Delete(ctx, n))
	all, err = remote.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRemoteUpdateMissing(t *testing.T) {
	ctx := context.Background()
	c := setupRemote(t)
	_, err := c.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	err = NewRemote(c).Update(ctx, notes.New("ghost"))
	require.ErrorIs(t, err, notes.ErrRemoteOperationFailed)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
}

func TestRemoteDeleteAllIsPerUser(t *testing.T) {
	ctx := context.Background()
	alice := setupRemote(t)
	_, err := alice.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	bob := NewClient(alice.baseURL)
	_, err = bob.Register(ctx, "bob", "password123")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, NewRemote(alice).Create(ctx, notes.New("a")))
	}
	require.NoError(t, NewRemote(bob).Create(ctx, notes.New("b")))

	require.NoError(t, NewRemote(alice).DeleteAll(ctx))

	left, err := NewRemote(alice).FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)

	left, err = NewRemote(bob).FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestRemoteUnauthenticated(t *testing.T) {
	c := setupRemote(t)

	_, err := NewRemote(c).FetchAll(context.Background())
	assert.ErrorIs(t, err, notes.ErrRemoteOperationFailed)
}
