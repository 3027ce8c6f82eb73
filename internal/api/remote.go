package api

import (
	"context"
	"fmt"

	"github.com/nzaccagnino/volon/internal/notes"
)

// Remote persists notes to the server under the client's signed-in user.
type Remote struct {
	client *Client
}

func NewRemote(client *Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) FetchAll(ctx context.Context) ([]notes.Note, error) {
	records, err := r.client.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch notes: %w: %w", notes.ErrRemoteOperationFailed, err)
	}

	out := make([]notes.Note, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out, nil
}

func (r *Remote) Create(ctx context.Context, n notes.Note) error {
	if err := r.client.CreateNote(ctx, ToRecord(n, r.client.UserID())); err != nil {
		return fmt.Errorf("create note %s: %w: %w", n.ID, notes.ErrRemoteOperationFailed, err)
	}
	return nil
}

func (r *Remote) Update(ctx context.Context, n notes.Note) error {
	if err := r.client.UpdateNote(ctx, ToRecord(n, r.client.UserID())); err != nil {
		return fmt.Errorf("update note %s: %w: %w", n.ID, notes.ErrRemoteOperationFailed, err)
	}
	return nil
}

func (r *Remote) Delete(ctx context.Context, n notes.Note) error {
	if err := r.client.DeleteNote(ctx, n.ID); err != nil {
		return fmt.Errorf("delete note %s: %w: %w", n.ID, notes.ErrRemoteOperationFailed, err)
	}
	return nil
}

func (r *Remote) DeleteAll(ctx context.Context) error {
	if err := r.client.DeleteAllNotes(ctx); err != nil {
		return fmt.Errorf("delete all notes: %w: %w", notes.ErrRemoteOperationFailed, err)
	}
	return nil
}
