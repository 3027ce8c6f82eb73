package api

import (
	"testing"
	"time"

	"github.com/nzaccagnino/volon/internal/notes"
	"github.com/stretchr/testify/assert"
)

func TestToRecord(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 6, time.FixedZone("CET", 3600))
	n := notes.Note{ID: "n1", Content: "# Hi", DateCreated: created, LastModified: created.Add(time.Hour)}

	rec := ToRecord(n, "user-1")
	assert.Equal(t, "n1", rec.ID)
	assert.Equal(t, "# Hi", rec.Content)
	assert.Equal(t, "user-1", rec.UserID)
	assert.True(t, rec.CreatedAt.Equal(created))
	assert.True(t, rec.ModifiedAt.Equal(created.Add(time.Hour)))
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
}

func TestFromRecordDropsOwner(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := Record{ID: "n1", Content: "body", CreatedAt: ts, ModifiedAt: ts.Add(time.Second), UserID: "user-1"}

	n := FromRecord(rec)
	assert.Equal(t, notes.Note{ID: "n1", Content: "body", DateCreated: ts, LastModified: ts.Add(time.Second)}, n)
}

func TestRecordTranslationPreservesNote(t *testing.T) {
	n := notes.New("# Round trip")
	back := FromRecord(ToRecord(n, "u"))

	assert.Equal(t, n.ID, back.ID)
	assert.Equal(t, n.Content, back.Content)
	assert.True(t, n.DateCreated.Equal(back.DateCreated))
	assert.True(t, n.LastModified.Equal(back.LastModified))
}
