package trash

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nzaccagnino/volon/internal/notes"
)

// DefaultGracePeriod is how long a deleted note can be restored.
const DefaultGracePeriod = 5 * time.Second

// Store persists the list of deleted notes.
type Store interface {
	LoadDeleted() ([]notes.Note, error)
	SaveDeleted([]notes.Note) error
	ClearDeleted() error
}

// Buffer keeps deleted notes for a grace period so a delete can be undone.
// Every Push schedules its own purge; a purge only removes the entry it was
// scheduled for, so deleting, restoring and deleting the same note again gets
// a full grace period the second time.
type Buffer struct {
	mu     sync.Mutex
	store  Store
	grace  time.Duration
	seq    uint64
	live   map[string]uint64
	timers map[uint64]*time.Timer
	logger *slog.Logger
}

func New(store Store, grace time.Duration, logger *slog.Logger) *Buffer {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Buffer{
		store:  store,
		grace:  grace,
		live:   make(map[string]uint64),
		timers: make(map[uint64]*time.Timer),
		logger: logger,
	}
}

func (b *Buffer) GracePeriod() time.Duration {
	return b.grace
}

// Push stores a copy of n and schedules its purge.
func (b *Buffer) Push(n notes.Note) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.store.LoadDeleted()
	if err != nil {
		return fmt.Errorf("failed to buffer deleted note: %w", err)
	}
	list = append(without(list, n.ID), n)
	if err := b.store.SaveDeleted(list); err != nil {
		return fmt.Errorf("failed to buffer deleted note: %w", err)
	}

	b.seq++
	gen := b.seq
	b.live[n.ID] = gen
	b.timers[gen] = time.AfterFunc(b.grace, func() { b.expire(n.ID, gen) })
	return nil
}

// Take removes the buffered note with the given id and returns it.
// The boolean is false when nothing is buffered under id.
func (b *Buffer) Take(id string) (notes.Note, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.store.LoadDeleted()
	if err != nil {
		return notes.Note{}, false, fmt.Errorf("failed to read deleted notes: %w", err)
	}

	for _, n := range list {
		if n.ID != id {
			continue
		}
		if err := b.store.SaveDeleted(without(list, id)); err != nil {
			return notes.Note{}, false, fmt.Errorf("failed to restore deleted note: %w", err)
		}
		delete(b.live, id)
		return n, true, nil
	}
	return notes.Note{}, false, nil
}

// Pending returns the buffered notes, oldest first.
func (b *Buffer) Pending() ([]notes.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.LoadDeleted()
}

// Len is the number of notes that can still be restored.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Clear drops every buffered note and cancels their timers.
func (b *Buffer) Clear() error {
	b.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.ClearDeleted()
}

// Stop cancels pending purges without touching storage.
func (b *Buffer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for gen, t := range b.timers {
		t.Stop()
		delete(b.timers, gen)
	}
	b.live = make(map[string]uint64)
}

func (b *Buffer) expire(id string, gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.timers, gen)
	if b.live[id] != gen {
		return
	}
	delete(b.live, id)

	list, err := b.store.LoadDeleted()
	if err != nil {
		b.logger.Error("failed to read deleted notes", "id", id, "error", err)
		return
	}
	if err := b.store.SaveDeleted(without(list, id)); err != nil {
		b.logger.Error("failed to purge deleted note", "id", id, "error", err)
		return
	}
	b.logger.Debug("purged deleted note", "id", id)
}

func without(list []notes.Note, id string) []notes.Note {
	out := make([]notes.Note, 0, len(list))
	for _, n := range list {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
