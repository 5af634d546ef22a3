// Package cache provides an in-process LRU cache for quick save reads.
// The backing store remains the source of truth.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MRamiBalles/shadowshell/internal/domain/save"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
)

// Backend is the store behind the cache.
type Backend interface {
	Save(ctx context.Context, snap save.Snapshot) error
	Load(ctx context.Context, name string) (save.Snapshot, error)
	List(ctx context.Context) ([]save.Info, error)
}

// SaveCache is a write-through cache of save snapshots.
type SaveCache struct {
	backend Backend
	entries *lru.Cache[string, save.Snapshot]
	logger  *logger.Logger
}

// NewSaveCache wraps backend with an LRU of the given size.
func NewSaveCache(backend Backend, size int, log *logger.Logger) (*SaveCache, error) {
	entries, err := lru.New[string, save.Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create save cache: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &SaveCache{backend: backend, entries: entries, logger: log}, nil
}

// Save writes to the backend first; the cached copy is only refreshed on success.
func (c *SaveCache) Save(ctx context.Context, snap save.Snapshot) error {
	if err := c.backend.Save(ctx, snap); err != nil {
		c.entries.Remove(snap.Name)
		return err
	}
	c.entries.Add(snap.Name, snap)
	return nil
}

// Load serves from the cache, falling back to the backend on a miss.
func (c *SaveCache) Load(ctx context.Context, name string) (save.Snapshot, error) {
	if snap, ok := c.entries.Get(name); ok {
		return snap, nil
	}
	snap, err := c.backend.Load(ctx, name)
	if err != nil {
		return save.Snapshot{}, err
	}
	c.entries.Add(name, snap)
	c.logger.Info(fmt.Sprintf("[CACHE] miss for %q, %d entries cached", name, c.entries.Len()))
	return snap, nil
}

// List always reads the backend.
func (c *SaveCache) List(ctx context.Context) ([]save.Info, error) {
	return c.backend.List(ctx)
}

// Invalidate drops one save from the cache.
func (c *SaveCache) Invalidate(name string) {
	c.entries.Remove(name)
}

// Len returns the number of cached saves.
func (c *SaveCache) Len() int {
	return c.entries.Len()
}
