package syncer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nzaccagnino/volon/internal/local"
	"github.com/nzaccagnino/volon/internal/notes"
)

// persist routes one durable write to the adapter of the current mode. The
// Notebook has already been changed and stays changed when the write fails.
func (c *Coordinator) persist(ctx context.Context, remoteWrite func(context.Context) error) error {
	if c.Mode() == ModeRemote {
		return remoteWrite(ctx)
	}
	return c.saveLocal()
}

// CreateNote adds a note with the given content, makes it active and
// persists it. The note is returned even when persisting fails.
func (c *Coordinator) CreateNote(ctx context.Context, content string) (notes.Note, error) {
	n := notes.New(content)
	if err := c.notebook.Add(n); err != nil {
		return notes.Note{}, err
	}
	c.setActive(n.ID)

	err := c.persist(ctx, func(ctx context.Context) error { return c.remote.Create(ctx, n) })
	if err != nil {
		c.logger.Error("failed to persist new note", "id", n.ID, "mode", c.Mode(), "error", err)
	}
	return n, err
}

// SaveActiveNoteContent stores new content for the active note. See
// SaveNoteContent.
func (c *Coordinator) SaveActiveNoteContent(ctx context.Context, content string) (notes.Note, error) {
	return c.SaveNoteContent(ctx, c.activeIDValue(), content)
}

// SaveNoteContent stores new content for the note with the given id. Saving
// the content it already has is not an update and changes nothing.
func (c *Coordinator) SaveNoteContent(ctx context.Context, id, content string) (notes.Note, error) {
	current, err := c.notebook.FindByID(id)
	if err != nil {
		return notes.Note{}, fmt.Errorf("save note: %w", err)
	}
	if current.Content == content {
		return current, nil
	}

	updated, err := c.notebook.UpdateContent(current.ID, content)
	if err != nil {
		return notes.Note{}, fmt.Errorf("save note: %w", err)
	}

	err = c.persist(ctx, func(ctx context.Context) error { return c.remote.Update(ctx, updated) })
	if err != nil {
		c.logger.Error("failed to persist note content", "id", updated.ID, "mode", c.Mode(), "error", err)
	}
	return updated, err
}

// DeleteActiveNote deletes the active note. See DeleteNote.
func (c *Coordinator) DeleteActiveNote(ctx context.Context) (notes.Note, error) {
	return c.DeleteNote(ctx, c.activeIDValue())
}

// DeleteNote buffers the note for undo, removes it from the Notebook and
// deletes it durably. Nothing is removed when the note cannot be buffered.
func (c *Coordinator) DeleteNote(ctx context.Context, id string) (notes.Note, error) {
	n, err := c.notebook.FindByID(id)
	if err != nil {
		return notes.Note{}, fmt.Errorf("delete note: %w", err)
	}
	if err := c.trash.Push(n); err != nil {
		return notes.Note{}, err
	}
	if _, err := c.notebook.RemoveByID(id); err != nil {
		return notes.Note{}, fmt.Errorf("delete note: %w", err)
	}

	c.mu.Lock()
	if c.activeID == id {
		c.activeID = ""
	}
	c.mu.Unlock()

	err = c.persist(ctx, func(ctx context.Context) error { return c.remote.Delete(ctx, n) })
	if err != nil {
		c.logger.Error("failed to persist note deletion", "id", id, "mode", c.Mode(), "error", err)
	}
	return n, err
}

// UndoDelete restores a deleted note that is still buffered. It reports false
// without an error when the undo window has closed.
func (c *Coordinator) UndoDelete(ctx context.Context, id string) (bool, error) {
	pending, err := c.trash.Pending()
	if err != nil {
		return false, fmt.Errorf("undo delete: %w", err)
	}
	i := slices.IndexFunc(pending, func(p notes.Note) bool { return p.ID == id })
	if i < 0 {
		return false, nil
	}
	n := pending[i]

	// the entry stays buffered until the note is back in the notebook
	if err := c.notebook.Add(n); err != nil {
		return false, fmt.Errorf("undo delete: %w", err)
	}
	if _, _, err := c.trash.Take(id); err != nil {
		c.logger.Warn("failed to drop restored note from undo buffer", "id", id, "error", err)
	}
	c.setActive(n.ID)

	err = c.persist(ctx, func(ctx context.Context) error { return c.remote.Create(ctx, n) })
	if err != nil {
		c.logger.Error("failed to persist restored note", "id", id, "mode", c.Mode(), "error", err)
	}
	return true, err
}

// DeleteAllNotes empties the Notebook and the durable store of the current
// mode. Every removed note is buffered so each can still be undone.
func (c *Coordinator) DeleteAllNotes(ctx context.Context) (int, error) {
	all := c.notebook.All()
	for _, n := range all {
		if err := c.trash.Push(n); err != nil {
			return 0, err
		}
	}
	c.notebook.Replace(nil)
	c.ClearActive()

	var err error
	if c.Mode() == ModeRemote {
		err = c.remote.DeleteAll(ctx)
	} else {
		c.saveMu.Lock()
		err = c.local.ClearNotes()
		c.saveMu.Unlock()
	}
	if err != nil {
		c.logger.Error("failed to delete all notes", "mode", c.Mode(), "error", err)
		return len(all), err
	}
	c.logger.Info("deleted all notes", "count", len(all), "mode", c.Mode())
	return len(all), nil
}

// SearchByContent treats a blank query as no query and returns every note.
func (c *Coordinator) SearchByContent(query string) []notes.Note {
	if strings.TrimSpace(query) == "" {
		return c.notebook.All()
	}
	return c.notebook.FindByContent(query)
}

// SubmitSearch is the enter action of the search bar. A keyboard-selected
// note is opened; otherwise a new note is created with the query as its
// heading, even when the query matches existing notes.
func (c *Coordinator) SubmitSearch(ctx context.Context, query, selectedID string) (notes.Note, bool, error) {
	if selectedID != "" {
		n, err := c.SetActive(selectedID)
		return n, false, err
	}

	content := ""
	if q := strings.TrimSpace(query); q != "" {
		content = "# " + q + "\n\n"
	}
	n, err := c.CreateNote(ctx, content)
	return n, true, err
}

func (c *Coordinator) SortByRecency(list []notes.Note) []notes.Note {
	return notes.SortByRecency(list)
}

// OrderedNotes sorts list by the note order preference.
func (c *Coordinator) OrderedNotes(list []notes.Note) []notes.Note {
	if c.Settings().NoteOrderPreference == local.OrderDateCreated {
		return notes.SortByCreated(list)
	}
	return notes.SortByRecency(list)
}

// Active note

func (c *Coordinator) activeIDValue() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeID
}

func (c *Coordinator) setActive(id string) {
	c.mu.Lock()
	c.activeID = id
	c.mu.Unlock()
}

func (c *Coordinator) SetActive(id string) (notes.Note, error) {
	n, err := c.notebook.FindByID(id)
	if err != nil {
		return notes.Note{}, err
	}
	c.setActive(id)
	return n, nil
}

// Active returns the active note. The boolean is false when none is active
// or the active note no longer exists.
func (c *Coordinator) Active() (notes.Note, bool) {
	id := c.activeIDValue()
	if id == "" {
		return notes.Note{}, false
	}
	n, err := c.notebook.FindByID(id)
	if err != nil {
		return notes.Note{}, false
	}
	return n, true
}

func (c *Coordinator) ClearActive() {
	c.setActive("")
}

func (c *Coordinator) NavigateNext(list []notes.Note) (notes.Note, bool) {
	return c.navigate(list, 1)
}

func (c *Coordinator) NavigatePrevious(list []notes.Note) (notes.Note, bool) {
	return c.navigate(list, -1)
}

// navigate moves the active note by step within list. Without an active note
// in list the first note is selected. Moving past either end does nothing.
func (c *Coordinator) navigate(list []notes.Note, step int) (notes.Note, bool) {
	if len(list) == 0 {
		return notes.Note{}, false
	}

	id := c.activeIDValue()
	idx := -1
	for i, n := range list {
		if n.ID == id {
			idx = i
			break
		}
	}

	next := idx + step
	switch {
	case idx < 0:
		next = 0
	case next < 0 || next >= len(list):
		return list[idx], false
	}
	c.setActive(list[next].ID)
	return list[next], true
}
