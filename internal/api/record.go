package api

import (
	"time"

	"github.com/nzaccagnino/volon/internal/notes"
)

// Record is one row of the remote notes table as it travels over the wire.
type Record struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	Content    string    `json:"content"`
	UserID     string    `json:"user_id"`
}

func ToRecord(n notes.Note, userID string) Record {
	return Record{
		ID:         n.ID,
		CreatedAt:  n.DateCreated.UTC(),
		ModifiedAt: n.LastModified.UTC(),
		Content:    n.Content,
		UserID:     userID,
	}
}

func FromRecord(r Record) notes.Note {
	return notes.Note{
		ID:           r.ID,
		Content:      r.Content,
		DateCreated:  r.CreatedAt,
		LastModified: r.ModifiedAt,
	}
}
