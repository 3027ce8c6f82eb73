package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nzaccagnino/volon/internal/local"
	"github.com/nzaccagnino/volon/internal/notes"
	"github.com/nzaccagnino/volon/internal/trash"
)

// Mode names the source of truth for durable writes.
type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

// Remote is the server-side note store of the signed-in user.
type Remote interface {
	FetchAll(ctx context.Context) ([]notes.Note, error)
	Create(ctx context.Context, n notes.Note) error
	Update(ctx context.Context, n notes.Note) error
	Delete(ctx context.Context, n notes.Note) error
	DeleteAll(ctx context.Context) error
}

// Session reports whether a usable remote identity is present.
type Session interface {
	SignedIn() bool
}

type Deps struct {
	Notebook *notes.Notebook
	Local    *local.Store
	Remote   Remote
	Session  Session
	Trash    *trash.Buffer
	Logger   *slog.Logger
}

// Coordinator owns the Notebook for a session and routes every durable write
// to the local snapshot or the remote store depending on the current mode.
type Coordinator struct {
	notebook *notes.Notebook
	local    *local.Store
	remote   Remote
	session  Session
	trash    *trash.Buffer
	logger   *slog.Logger

	mu       sync.RWMutex
	mode     Mode
	settings local.Settings
	activeID string

	// serializes writes of the snapshot key
	saveMu sync.Mutex
}

func New(d Deps) *Coordinator {
	nb := d.Notebook
	if nb == nil {
		nb = notes.NewNotebook()
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		notebook: nb,
		local:    d.Local,
		remote:   d.Remote,
		session:  d.Session,
		trash:    d.Trash,
		logger:   logger.With("component", "syncer"),
		settings: local.DefaultSettings(),
	}
}

func (c *Coordinator) Notebook() *notes.Notebook {
	return c.notebook
}

// UndoWindow is how long a deleted note can be restored.
func (c *Coordinator) UndoWindow() time.Duration {
	return c.trash.GracePeriod()
}

func (c *Coordinator) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

func (c *Coordinator) signedIn() bool {
	return c.session != nil && c.remote != nil && c.session.SignedIn()
}

// LoadNotesOnStartup drops any leftover undo entries, picks the initial mode
// from the session and runs that mode's entry action.
func (c *Coordinator) LoadNotesOnStartup(ctx context.Context) error {
	if err := c.trash.Clear(); err != nil {
		return fmt.Errorf("failed to clear deleted notes: %w", err)
	}

	if c.signedIn() {
		c.setMode(ModeRemote)
		c.loadSettingsQuietly()
		return c.enterRemote(ctx)
	}
	c.setMode(ModeLocal)
	return c.enterLocal()
}

// SignIn moves from local to remote mode. Local notes missing remotely are
// imported first; the number imported is returned.
func (c *Coordinator) SignIn(ctx context.Context) (int, error) {
	if !c.signedIn() {
		return 0, fmt.Errorf("sign in: no session: %w", notes.ErrInvalidArgument)
	}

	imported, err := c.ImportLocalNotesIntoRemote(ctx)
	if err != nil {
		return imported, err
	}

	c.setMode(ModeRemote)
	c.ClearActive()
	if err := c.enterRemote(ctx); err != nil {
		return imported, err
	}
	c.logger.Info("signed in", "imported", imported, "notes", c.notebook.Len())
	return imported, nil
}

// ImportLocalNotesIntoRemote pushes every locally persisted note whose id is
// not present remotely. Notes already present are left untouched and local
// notes are never removed.
func (c *Coordinator) ImportLocalNotesIntoRemote(ctx context.Context) (int, error) {
	if !c.signedIn() {
		return 0, fmt.Errorf("import notes: no session: %w", notes.ErrInvalidArgument)
	}

	snap, err := c.local.LoadSnapshot()
	if errors.Is(err, notes.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("import notes: %w", err)
	}

	existing, err := c.remote.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("import notes: %w", err)
	}
	present := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		present[n.ID] = struct{}{}
	}

	var (
		imported int
		errs     []error
	)
	for _, n := range snap.Notes {
		if _, ok := present[n.ID]; ok {
			continue
		}
		if err := c.remote.Create(ctx, n); err != nil {
			errs = append(errs, err)
			continue
		}
		present[n.ID] = struct{}{}
		imported++
	}
	if len(errs) > 0 {
		return imported, fmt.Errorf("import notes: %w", errors.Join(errs...))
	}
	return imported, nil
}

// SignOut returns to local mode without transferring data. The Notebook is
// repopulated from the local snapshot.
func (c *Coordinator) SignOut(ctx context.Context) error {
	c.setMode(ModeLocal)
	c.ClearActive()
	return c.enterLocal()
}

func (c *Coordinator) setMode(m Mode) {
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
}

// enterLocal seeds the welcome notes when there is no snapshot, or the
// snapshot carries settings only, then loads the snapshot into the Notebook.
func (c *Coordinator) enterLocal() error {
	snap, err := c.local.LoadSnapshot()
	seed := false
	switch {
	case errors.Is(err, notes.ErrNotFound):
		seed = true
		snap.Settings = local.DefaultSettings()
	case err != nil:
		return err
	case !snap.HasNotes:
		seed = true
	}

	if seed {
		c.saveMu.Lock()
		err := c.local.SaveSnapshot(snap.Settings, notes.WelcomeNotes())
		c.saveMu.Unlock()
		if err != nil {
			return fmt.Errorf("failed to seed local notes: %w", err)
		}
		c.logger.Info("seeded welcome notes", "mode", ModeLocal)

		if snap, err = c.local.LoadSnapshot(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.settings = snap.Settings
	c.mu.Unlock()
	c.notebook.Replace(snap.Notes)
	return nil
}

// enterRemote fetches the user's notes, seeding the welcome notes on an
// empty store, and replaces the Notebook with the result.
func (c *Coordinator) enterRemote(ctx context.Context) error {
	fetched, err := c.remote.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("load remote notes: %w", err)
	}

	if len(fetched) == 0 {
		for _, n := range notes.WelcomeNotes() {
			if err := c.remote.Create(ctx, n); err != nil {
				return fmt.Errorf("seed remote notes: %w", err)
			}
		}
		c.logger.Info("seeded welcome notes", "mode", ModeRemote)

		if fetched, err = c.remote.FetchAll(ctx); err != nil {
			return fmt.Errorf("load remote notes: %w", err)
		}
	}

	c.notebook.Replace(fetched)
	return nil
}

// loadSettingsQuietly reads settings from the local snapshot in remote mode.
// Notes come from the server there, so an unreadable blob only costs the
// saved preferences.
func (c *Coordinator) loadSettingsQuietly() {
	snap, err := c.local.LoadSnapshot()
	if err != nil {
		if !errors.Is(err, notes.ErrNotFound) {
			c.logger.Warn("using default settings", "error", err)
		}
		return
	}
	c.mu.Lock()
	c.settings = snap.Settings
	c.mu.Unlock()
}

// saveLocal writes the current settings and Notebook as the snapshot.
func (c *Coordinator) saveLocal() error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if err := c.local.SaveSnapshot(c.Settings(), c.notebook.All()); err != nil {
		return fmt.Errorf("failed to persist notes: %w", err)
	}
	return nil
}
