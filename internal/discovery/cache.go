// Package discovery finds docker-compose projects on a remote host and
// caches their locations with a TTL, in memory and on disk.
package discovery

import (
	"encoding/json"

	"github.com/dockhand/dockhand/internal/logger"
)

// Entry is the cached discovery result for one target identity. It is
// replaced wholesale on every scan and stores locations only; service
// lists are always re-derived from live content.
type Entry struct {
	Projects  []ProjectRef `json:"projects"`
	LastScan  uint64       `json:"last_scan"`
	ScanPaths []string     `json:"scan_paths"`
}

// ProjectRef is the compact cache record for one discovered project.
type ProjectRef struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	ComposeFile string `json:"compose_file"`
}

// Cache is the two-tier discovery cache: a memory tier that is the
// source of truth for the process lifetime, and a best-effort persisted
// tier behind it.
type Cache struct {
	memory Store
	disk   Store
	log    logger.Logger
}

// NewCache builds a cache with an in-memory tier over a file tier
// rooted at dir.
func NewCache(dir string) (*Cache, error) {
	files, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return NewCacheWithStores(NewMemoryStore(), files), nil
}

// NewCacheWithStores builds a cache over explicit tiers. Used by tests
// to substitute fake backing stores.
func NewCacheWithStores(memory, disk Store) *Cache {
	return &Cache{
		memory: memory,
		disk:   disk,
		log:    logger.NewEnvLogger("[discovery]"),
	}
}

// SetLogger replaces the cache's logger.
func (c *Cache) SetLogger(log logger.Logger) {
	c.log = log
}

// Get returns the entry for a target, trying memory first and falling
// back to the persisted tier. A disk hit repopulates memory. Returns
// false when neither tier has a parsable entry; a broken persisted file
// degrades to a miss.
func (c *Cache) Get(target string) (Entry, bool) {
	if data, ok, _ := c.memory.Get(target); ok {
		if entry, err := decodeEntry(data); err == nil {
			return entry, true
		}
	}

	data, ok, err := c.disk.Get(target)
	if err != nil {
		c.log.Warn("cache read for %s failed: %v", target, err)
		return Entry{}, false
	}
	if !ok {
		return Entry{}, false
	}

	entry, err := decodeEntry(data)
	if err != nil {
		c.log.Warn("cache file for %s is corrupt: %v", target, err)
		return Entry{}, false
	}

	_ = c.memory.Set(target, data)
	return entry, true
}

// Set replaces the entry for a target in memory, then persists it. A
// disk failure is logged but does not unwind the memory update: disk is
// a best-effort backing store, not the source of truth.
func (c *Cache) Set(target string, entry Entry) {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		c.log.Warn("cache encode for %s failed: %v", target, err)
		return
	}

	_ = c.memory.Set(target, data)

	if err := c.disk.Set(target, data); err != nil {
		c.log.Warn("cache write for %s failed: %v", target, err)
	}
}

// Invalidate removes the target's entry from both tiers, best-effort.
func (c *Cache) Invalidate(target string) {
	_ = c.memory.Delete(target)
	if err := c.disk.Delete(target); err != nil {
		c.log.Warn("cache delete for %s failed: %v", target, err)
	}
}

func decodeEntry(data []byte) (Entry, error) {
	var entry Entry
	err := json.Unmarshal(data, &entry)
	return entry, err
}
