package local

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nzaccagnino/volon/internal/notes"
)

const (
	// SnapshotKey holds settings and every note as one JSON object.
	SnapshotKey = "volon"
	// DeletedKey holds the JSON array of notes waiting in the undo buffer.
	DeletedKey = "volonDeletedNotes"
)

// KV is a string key/value store with localStorage semantics.
type KV interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Store reads and writes the local snapshot and the deleted-notes list.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Snapshot is a decoded local blob. HasNotes is false for settings-only blobs.
type Snapshot struct {
	Settings Settings
	Notes    []notes.Note
	HasNotes bool
}

type storedNote struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	DateCreated  string `json:"dateCreated"`
	LastModified string `json:"lastModified"`
}

type snapshotBlob struct {
	Settings
	Notes []storedNote `json:"notes"`
}

type loadedBlob struct {
	storedSettings
	Notes *[]storedNote `json:"notes"`
}

func encodeNote(n notes.Note) storedNote {
	return storedNote{
		ID:           n.ID,
		Content:      n.Content,
		DateCreated:  n.DateCreated.UTC().Format(time.RFC3339Nano),
		LastModified: n.LastModified.UTC().Format(time.RFC3339Nano),
	}
}

func encodeNotes(list []notes.Note) []storedNote {
	out := make([]storedNote, 0, len(list))
	for _, n := range list {
		out = append(out, encodeNote(n))
	}
	return out
}

// revive turns the serialized timestamps back into time values.
func (s storedNote) revive() (notes.Note, error) {
	if s.ID == "" {
		return notes.Note{}, fmt.Errorf("note without id: %w", notes.ErrStorageCorrupt)
	}
	created, err := time.Parse(time.RFC3339Nano, s.DateCreated)
	if err != nil {
		return notes.Note{}, fmt.Errorf("note %s: bad dateCreated %q: %w", s.ID, s.DateCreated, notes.ErrStorageCorrupt)
	}
	modified, err := time.Parse(time.RFC3339Nano, s.LastModified)
	if err != nil {
		return notes.Note{}, fmt.Errorf("note %s: bad lastModified %q: %w", s.ID, s.LastModified, notes.ErrStorageCorrupt)
	}
	return notes.Note{
		ID:           s.ID,
		Content:      s.Content,
		DateCreated:  created,
		LastModified: modified,
	}, nil
}

func reviveAll(list []storedNote) ([]notes.Note, error) {
	out := make([]notes.Note, 0, len(list))
	for _, s := range list {
		n, err := s.revive()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// SaveSnapshot overwrites the local blob with settings and the full note list.
func (s *Store) SaveSnapshot(settings Settings, list []notes.Note) error {
	data, err := json.Marshal(snapshotBlob{Settings: settings, Notes: encodeNotes(list)})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.kv.SetItem(SnapshotKey, string(data)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// SaveSettingsOnly overlays the settings fields on the existing blob and keeps
// everything else, notes included. Without a blob it writes a settings-only one.
func (s *Store) SaveSettingsOnly(settings Settings) error {
	fields, found, err := s.rawBlob()
	if err != nil {
		return err
	}
	if !found {
		fields = map[string]json.RawMessage{}
	}

	overlay, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	var settingFields map[string]json.RawMessage
	if err := json.Unmarshal(overlay, &settingFields); err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	for k, v := range settingFields {
		fields[k] = v
	}

	return s.writeRaw(fields)
}

// LoadSnapshot decodes the local blob. It returns notes.ErrNotFound when no
// blob exists and notes.ErrStorageCorrupt when the blob cannot be decoded.
func (s *Store) LoadSnapshot() (Snapshot, error) {
	raw, found, err := s.kv.GetItem(SnapshotKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if !found {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", notes.ErrNotFound)
	}

	var blob loadedBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %v: %w", err, notes.ErrStorageCorrupt)
	}

	snap := Snapshot{Settings: blob.storedSettings.resolve(), Notes: []notes.Note{}}
	if blob.Notes != nil {
		snap.HasNotes = true
		snap.Notes, err = reviveAll(*blob.Notes)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
		}
	}
	return snap, nil
}

// ClearNotes empties the note list of the blob and keeps its settings.
func (s *Store) ClearNotes() error {
	fields, found, err := s.rawBlob()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	fields["notes"] = json.RawMessage("[]")
	return s.writeRaw(fields)
}

// LoadDeleted returns the notes held by the undo buffer, oldest first.
func (s *Store) LoadDeleted() ([]notes.Note, error) {
	raw, found, err := s.kv.GetItem(DeletedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load deleted notes: %w", err)
	}
	if !found {
		return []notes.Note{}, nil
	}

	var list []storedNote
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("load deleted notes: %v: %w", err, notes.ErrStorageCorrupt)
	}
	revived, err := reviveAll(list)
	if err != nil {
		return nil, fmt.Errorf("load deleted notes: %w", err)
	}
	return revived, nil
}

func (s *Store) SaveDeleted(list []notes.Note) error {
	data, err := json.Marshal(encodeNotes(list))
	if err != nil {
		return fmt.Errorf("failed to marshal deleted notes: %w", err)
	}
	if err := s.kv.SetItem(DeletedKey, string(data)); err != nil {
		return fmt.Errorf("failed to save deleted notes: %w", err)
	}
	return nil
}

func (s *Store) ClearDeleted() error {
	if err := s.kv.RemoveItem(DeletedKey); err != nil {
		return fmt.Errorf("failed to clear deleted notes: %w", err)
	}
	return nil
}

func (s *Store) rawBlob() (map[string]json.RawMessage, bool, error) {
	raw, found, err := s.kv.GetItem(SnapshotKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, false, fmt.Errorf("read snapshot: %v: %w", err, notes.ErrStorageCorrupt)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, true, nil
}

func (s *Store) writeRaw(fields map[string]json.RawMessage) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.kv.SetItem(SnapshotKey, string(data)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
