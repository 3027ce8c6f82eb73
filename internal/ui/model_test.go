package ui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nzaccagnino/volon/internal/db"
	"github.com/nzaccagnino/volon/internal/local"
	"github.com/nzaccagnino/volon/internal/syncer"
	"github.com/nzaccagnino/volon/internal/trash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *syncer.Coordinator) {
	t.Helper()

	dir := t.TempDir()
	kv, err := db.New(filepath.Join(dir, "volon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := local.NewStore(kv)
	buf := trash.New(store, time.Minute, logger)
	t.Cleanup(buf.Stop)

	coord := syncer.New(syncer.Deps{Local: store, Trash: buf, Logger: logger})
	m := NewModel(coord, Options{ExportDir: dir, Logger: logger})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(loadedMsg{err: coord.LoadNotesOnStartup(context.Background())})
	return next.(Model), coord
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModelLoadsWelcomeNotes(t *testing.T) {
	m, coord := newTestModel(t)

	assert.True(t, m.loaded)
	assert.Equal(t, ModeSearch, m.mode)
	assert.Len(t, m.list, 2)

	active, ok := coord.Active()
	require.True(t, ok)
	assert.Equal(t, m.list[0].ID, active.ID)
	title := []rune(m.noteTitle(m.list[0]))
	assert.Contains(t, m.View(), string(title[:min(len(title), 5)]))
}

func TestModelSearchFiltersList(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeText(t, m, "zzzz-no-match")
	assert.Empty(t, m.list)

	for range "zzzz-no-match" {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	assert.Len(t, m.list, 2)
}

func TestModelSubmitSearchCreatesNote(t *testing.T) {
	m, coord := newTestModel(t)

	m = typeText(t, m, "groceries")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	created, ok := msg.(createdMsg)
	require.True(t, ok)
	require.NoError(t, created.err)
	assert.True(t, created.created)

	m, _ = send(t, m, created)
	assert.Equal(t, ModeEditing, m.mode)
	assert.Equal(t, "# groceries\n\n", m.textarea.Value())
	assert.Empty(t, m.search.Value())
	assert.Len(t, m.list, 3)

	active, ok := coord.Active()
	require.True(t, ok)
	assert.Equal(t, created.note.ID, active.ID)
}

func TestModelSubmitSearchOpensSelectedNote(t *testing.T) {
	m, coord := newTestModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.NotEmpty(t, m.selectedID)
	selected := m.selectedID

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	created := cmd().(createdMsg)
	assert.False(t, created.created)
	assert.Equal(t, selected, created.note.ID)

	m, _ = send(t, m, created)
	assert.Equal(t, ModeEditing, m.mode)
	assert.Len(t, coord.Notebook().All(), 2)
}

func TestModelEditAndSave(t *testing.T) {
	m, coord := newTestModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ModeList, m.mode)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	require.Equal(t, ModeEditing, m.mode)

	m = typeText(t, m, "extra")
	assert.True(t, m.dirty)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	saved := cmd().(savedMsg)
	require.NoError(t, saved.err)
	m, _ = send(t, m, saved)

	assert.False(t, m.dirty)
	active, ok := coord.Active()
	require.True(t, ok)
	assert.Contains(t, active.Content, "extra")
}

func TestModelDeleteAndUndo(t *testing.T) {
	m, coord := newTestModel(t)
	active, ok := coord.Active()
	require.True(t, ok)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	deleted := cmd().(deletedMsg)
	require.NoError(t, deleted.err)
	m, _ = send(t, m, deleted)

	assert.Equal(t, active.ID, m.undoID)
	assert.Len(t, m.list, 1)
	assert.Contains(t, m.renderStatus(), m.undoTitle)

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	require.NotNil(t, cmd)
	m, _ = send(t, m, runSequence(t, cmd))

	assert.Empty(t, m.undoID)
	assert.Len(t, m.list, 2)
	_, err := coord.Notebook().FindByID(active.ID)
	assert.NoError(t, err)
}

func TestModelUndoToastExpires(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m, _ = send(t, m, cmd())
	require.NotEmpty(t, m.undoID)

	m, _ = send(t, m, tickMsg(time.Now().Add(2*time.Minute)))
	assert.Empty(t, m.undoID)
}

func TestModelToggleSettings(t *testing.T) {
	m, coord := newTestModel(t)
	before := coord.Settings()

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	m, _ = send(t, m, cmd())
	assert.Equal(t, !before.AsideActive, coord.Settings().AsideActive)

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	_, _ = send(t, m, cmd())
	assert.Equal(t, local.OrderDateCreated, coord.Settings().NoteOrderPreference)
}

func TestModelExportActiveNote(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	exported, ok := runSequence(t, cmd).(exportedMsg)
	require.True(t, ok)
	require.NoError(t, exported.err)

	data, err := os.ReadFile(exported.path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))

	m, _ = send(t, m, exported)
	assert.Contains(t, m.notice, exported.path)
}

func TestModelHelpScreen(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, ModeHelp, m.mode)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
}

// runSequence runs a command that may be a tea.Sequence and returns the
// last message it produced.
func runSequence(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	msg := cmd()
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		return msg
	}
	var last tea.Msg
	for i := 0; i < v.Len(); i++ {
		if c, ok := v.Index(i).Interface().(tea.Cmd); ok && c != nil {
			last = c()
		}
	}
	return last
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "h", truncate("hello", 1))
	assert.Equal(t, "", truncate("hello", 0))
	assert.Equal(t, "àè…", truncate("àèìòù", 3))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "shopping-list.html", exportFileName("Shopping List", "abc"))
	assert.Equal(t, "abc.html", exportFileName("!!!", "abc"))
}

func TestRenderPreview(t *testing.T) {
	out := renderPreview("# Title\n\n- [x] done\n- item\n```\ncode\n```", 80)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "☑ done")
	assert.Contains(t, out, "• item")
	assert.Contains(t, out, "code")
	assert.NotContains(t, out, "```")
}
