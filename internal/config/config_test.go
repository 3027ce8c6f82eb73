package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	assert.False(t, ConfigExists(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultUndoGracePeriod, cfg.UndoGracePeriod)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DBPath)
	assert.False(t, cfg.Server.SignedIn())
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `db_path: /tmp/notes.db
language: it
log_level: debug
undo_grace_period: 10s
server:
  url: http://localhost:8080
  enabled: true
  token: abc
  username: alice
  user_id: u-1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/notes.db", cfg.DBPath)
	assert.Equal(t, "it", cfg.Language)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.UndoGracePeriod)
	assert.True(t, cfg.Server.SignedIn())
	assert.Equal(t, "/tmp/volon.log", cfg.LogPath())
}

func TestLoadFillsBlankFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: ''\nundo_grace_period: -1s\nlanguage: ''\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.Equal(t, DefaultUndoGracePeriod, cfg.UndoGracePeriod)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: ~/volon/notes.db\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "volon", "notes.db"), cfg.DBPath)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	cfg := Default()
	cfg.Server = ServerConfig{URL: "http://x", Enabled: true, Token: "t", Username: "bob", UserID: "u"}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	loaded.Server.ClearSession()
	assert.False(t, loaded.Server.SignedIn())
	assert.Equal(t, "http://x", loaded.Server.URL)
}
