package syncer

import (
	"fmt"

	"github.com/nzaccagnino/volon/internal/local"
)

func (c *Coordinator) Settings() local.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// UpdateSettings applies fn to the current settings and saves them without
// touching the persisted notes.
func (c *Coordinator) UpdateSettings(fn func(*local.Settings)) error {
	c.mu.Lock()
	next := c.settings
	fn(&next)
	c.settings = next
	c.mu.Unlock()

	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if err := c.local.SaveSettingsOnly(next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
