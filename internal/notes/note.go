package notes

import (
	"time"

	"github.com/google/uuid"
)

// Note is a single user document. Timestamps are kept as time.Time in memory;
// serialized copies live in the persistence adapters.
type Note struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	DateCreated  time.Time `json:"dateCreated"`
	LastModified time.Time `json:"lastModified"`
}

// New returns a note with a fresh id and both timestamps set to the same instant.
func New(content string) Note {
	now := time.Now()
	return Note{
		ID:           uuid.NewString(),
		Content:      content,
		DateCreated:  now,
		LastModified: now,
	}
}

// touch returns a modification time strictly after prev.
func touch(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}
