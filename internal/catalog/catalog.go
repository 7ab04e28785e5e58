// Package catalog discovers game description files in a directory and
// registers them by ID, allowing commands to find games without knowing
// where they live on disk.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/wee/internal/engine"
	"github.com/vovakirdan/wee/internal/schema"
)

// Entry contains metadata about a discovered game.
type Entry struct {
	ID        string // file path relative to the root, without extension
	Path      string
	Type      engine.GameType
	Published bool
	Objects   int
}

// Skipped records a file that looked like a description but could not be read.
type Skipped struct {
	Path string
	Err  error
}

// Catalog is a set of discovered games. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	root    string
	entries map[string]Entry
	skipped []Skipped
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Load recursively scans root and registers every readable description.
// Files that fail the header probe are skipped and reported by Skipped.
func (c *Catalog) Load(root string) error {
	entries := make(map[string]Entry)
	var skipped []Skipped

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !schema.IsSupported(path) {
			return nil
		}

		h, err := schema.LoadHeader(path)
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Err: err})
			return nil
		}

		id := idFor(root, path)
		if prev, dup := entries[id]; dup {
			skipped = append(skipped, Skipped{Path: path, Err: fmt.Errorf("catalog: id %q already used by %s", id, prev.Path)})
			return nil
		}
		entries[id] = Entry{
			ID:        id,
			Path:      path,
			Type:      h.GameType,
			Published: h.Published,
			Objects:   h.Objects,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog: walking directory %s: %w", root, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = root
	c.entries = entries
	c.skipped = skipped
	return nil
}

// Register adds a single file to the catalog under id.
func (c *Catalog) Register(id, path string) error {
	h, err := schema.LoadHeader(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[id]; exists {
		return fmt.Errorf("catalog: game %q already registered", id)
	}
	c.entries[id] = Entry{ID: id, Path: path, Type: h.GameType, Published: h.Published, Objects: h.Objects}
	return nil
}

// List returns all registered games, sorted by ID.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Skipped returns the files the last Load could not read.
func (c *Catalog) Skipped() []Skipped {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Skipped(nil), c.skipped...)
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("catalog: unknown game %q", id)
	}
	return e, nil
}

// Exists checks if a game with the given ID is registered.
func (c *Catalog) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

// Open fully decodes and validates the game with the given ID.
func (c *Catalog) Open(id string) (engine.Definition, error) {
	e, err := c.Get(id)
	if err != nil {
		return engine.Definition{}, err
	}
	return schema.Load(e.Path)
}

// Resolve accepts either a catalog ID or a path to a description file.
func (c *Catalog) Resolve(ref string) (Entry, error) {
	if e, err := c.Get(ref); err == nil {
		return e, nil
	}
	if _, err := os.Stat(ref); err == nil && schema.IsSupported(ref) {
		h, err := schema.LoadHeader(ref)
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			ID:        strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref)),
			Path:      ref,
			Type:      h.GameType,
			Published: h.Published,
			Objects:   h.Objects,
		}, nil
	}
	return Entry{}, fmt.Errorf("catalog: %q is neither a known game nor a description file", ref)
}

func idFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.ToSlash(rel)
}
