package notes

import (
	"fmt"
	"strings"
	"sync"
)

// Notebook is the in-memory collection of notes for the current session.
// Insertion order is preserved; presentation order is computed by the sort helpers.
// All reads return copies, so the only way to change a note is through Notebook methods.
type Notebook struct {
	mu    sync.RWMutex
	notes []Note
}

func NewNotebook(initial ...Note) *Notebook {
	nb := &Notebook{}
	nb.notes = append(nb.notes, initial...)
	return nb
}

func (nb *Notebook) indexOf(id string) int {
	for i := range nb.notes {
		if nb.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByID returns the note with the given id.
func (nb *Notebook) FindByID(id string) (Note, error) {
	if id == "" {
		return Note{}, fmt.Errorf("find note: id must not be empty: %w", ErrInvalidArgument)
	}

	nb.mu.RLock()
	defer nb.mu.RUnlock()

	i := nb.indexOf(id)
	if i < 0 {
		return Note{}, fmt.Errorf("find note %s: %w", id, ErrNotFound)
	}
	return nb.notes[i], nil
}

// FindByContent returns every note whose content contains query, ignoring case.
// An empty query matches all notes.
func (nb *Notebook) FindByContent(query string) []Note {
	q := strings.ToLower(query)

	nb.mu.RLock()
	defer nb.mu.RUnlock()

	matched := []Note{}
	for _, n := range nb.notes {
		if strings.Contains(strings.ToLower(n.Content), q) {
			matched = append(matched, n)
		}
	}
	return matched
}

// Add appends a note. It does not persist anything.
func (nb *Notebook) Add(n Note) error {
	if n.ID == "" {
		return fmt.Errorf("add note: id must not be empty: %w", ErrInvalidArgument)
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()

	if nb.indexOf(n.ID) >= 0 {
		return fmt.Errorf("add note %s: %w", n.ID, ErrAlreadyExists)
	}
	nb.notes = append(nb.notes, n)
	return nil
}

// RemoveByID removes the note with the given id and returns it.
func (nb *Notebook) RemoveByID(id string) (Note, error) {
	if id == "" {
		return Note{}, fmt.Errorf("remove note: id must not be empty: %w", ErrInvalidArgument)
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()

	i := nb.indexOf(id)
	if i < 0 {
		return Note{}, fmt.Errorf("remove note %s: %w", id, ErrNotFound)
	}
	removed := nb.notes[i]
	nb.notes = append(nb.notes[:i], nb.notes[i+1:]...)
	return removed, nil
}

// UpdateContent replaces the content of a note and moves its LastModified forward.
func (nb *Notebook) UpdateContent(id, content string) (Note, error) {
	if id == "" {
		return Note{}, fmt.Errorf("update note: id must not be empty: %w", ErrInvalidArgument)
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()

	i := nb.indexOf(id)
	if i < 0 {
		return Note{}, fmt.Errorf("update note %s: %w", id, ErrNotFound)
	}
	nb.notes[i].Content = content
	nb.notes[i].LastModified = touch(nb.notes[i].LastModified)
	return nb.notes[i], nil
}

// All returns a snapshot of the collection in insertion order.
func (nb *Notebook) All() []Note {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	out := make([]Note, len(nb.notes))
	copy(out, nb.notes)
	return out
}

func (nb *Notebook) Len() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return len(nb.notes)
}

// Replace swaps the whole collection, used when the persistence source changes.
func (nb *Notebook) Replace(all []Note) {
	fresh := make([]Note, len(all))
	copy(fresh, all)

	nb.mu.Lock()
	nb.notes = fresh
	nb.mu.Unlock()
}
