// Package cache stores resolved publication records on disk, one
// directory per publication, so repeated runs skip the network.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rbalebako/lit-review-search/internal/pub"
)

// ErrMiss indicates no cached record exists for the identifier.
var ErrMiss = errors.New("cache miss")

// RecordFile is the file name of the cached record inside a
// publication's directory.
const RecordFile = "publication.json"

// Cache is an on-disk publication cache rooted at a data directory.
// Entries are trusted as-is: there is no TTL, a re-fetch requires
// deleting the entry.
type Cache struct {
	root string

	// mu guards locks; each identifier gets its own mutex so that a
	// concurrent caller cannot fetch the same publication twice.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{root: dir, locks: make(map[string]*sync.Mutex)}
}

// Root returns the cache's data directory.
func (c *Cache) Root() string { return c.root }

var unsafeChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"<", "_",
	">", "_",
	"\"", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SafeID maps an identifier to a single filesystem-safe path segment.
// DOIs like "10.1037/0003-066X.59.1.29" contain slashes and must not
// fan out into nested directories.
func SafeID(id string) string {
	return unsafeChars.Replace(strings.TrimSpace(id))
}

// Dir returns the directory that holds the cached data for id.
func (c *Cache) Dir(id string) string {
	return filepath.Join(c.root, SafeID(id))
}

// Lock acquires the per-identifier mutex and returns its unlock
// function. Serializing on the identifier makes the at-most-once-fetch
// guarantee explicit instead of relying on single-threaded callers.
func (c *Cache) Lock(id string) func() {
	c.mu.Lock()
	m, ok := c.locks[SafeID(id)]
	if !ok {
		m = &sync.Mutex{}
		c.locks[SafeID(id)] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Load reads the cached record for id. Returns ErrMiss when no entry
// exists.
func (c *Cache) Load(id string) (*pub.Publication, error) {
	data, err := os.ReadFile(filepath.Join(c.Dir(id), RecordFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMiss, id)
		}
		return nil, fmt.Errorf("reading cached record: %w", err)
	}

	var p pub.Publication
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing cached record %s: %w", id, err)
	}
	return &p, nil
}

// Store writes the record for id, creating the publication directory
// if needed. An existing entry is overwritten.
func (c *Cache) Store(id string, p *pub.Publication) error {
	dir := c.Dir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating publication directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, RecordFile), data, 0644); err != nil {
		return fmt.Errorf("writing cached record: %w", err)
	}
	return nil
}

// Has reports whether a cached record exists for id.
func (c *Cache) Has(id string) bool {
	_, err := os.Stat(filepath.Join(c.Dir(id), RecordFile))
	return err == nil
}
