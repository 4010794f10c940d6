// Package cache remembers the last directory snapshot of each console.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/stackswitch/cli/pkg/directory"
	"github.com/stackswitch/cli/pkg/store"
)

// DefaultMaxAge is how long a snapshot is served before it is scraped again.
const DefaultMaxAge = 24 * time.Hour

const keyPrefix = "directory:"

// Cache keeps one snapshot per console scope (origin plus mount path). The
// project list and its capture time are stored as a single value.
type Cache struct {
	store  store.Store
	logger *pterm.Logger
	now    func() time.Time
}

// New returns a Cache on top of s.
func New(s store.Store, logger *pterm.Logger) *Cache {
	if logger == nil {
		logger = &pterm.DefaultLogger
	}
	return &Cache{store: s, logger: logger, now: time.Now}
}

// WithClock replaces the time source used for freshness checks.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func key(scope string) string {
	return keyPrefix + scope
}

// Read returns the stored snapshot for scope. A missing or unreadable slot is
// reported as absent.
func (c *Cache) Read(scope string) (directory.Snapshot, bool) {
	raw, ok, err := c.store.Get(key(scope))
	if err != nil {
		c.logger.Debug("project cache unreadable", c.logger.Args("scope", scope, "error", err))
		return directory.Snapshot{}, false
	}
	if !ok {
		return directory.Snapshot{}, false
	}

	var snap directory.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.Warn("discarding corrupt project cache", c.logger.Args("scope", scope, "error", err))
		return directory.Snapshot{}, false
	}
	if snap.CapturedAt.IsZero() || snap.Records == nil {
		c.logger.Warn("discarding incomplete project cache", c.logger.Args("scope", scope))
		return directory.Snapshot{}, false
	}
	return snap, true
}

// Write replaces the snapshot stored for scope.
func (c *Cache) Write(scope string, snap directory.Snapshot) error {
	if snap.Records == nil {
		snap.Records = []directory.Record{}
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode project cache: %w", err)
	}
	if err := c.store.Set(key(scope), raw); err != nil {
		return fmt.Errorf("failed to write project cache: %w", err)
	}
	return nil
}

// IsFresh reports whether a snapshot for scope exists and is younger than maxAge.
func (c *Cache) IsFresh(scope string, maxAge time.Duration) bool {
	snap, ok := c.Read(scope)
	if !ok {
		return false
	}
	return snap.Age(c.now()) < maxAge
}

// Clear forgets the snapshot for scope.
func (c *Cache) Clear(scope string) error {
	return c.store.Delete(key(scope))
}
