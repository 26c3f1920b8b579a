// Package jsonstore provides a file-backed JSON collection with whole-file
// read-modify-write semantics. Every collection is a single JSON array on
// disk; reads parse the whole file and writes rewrite it entirely.
//
// A per-collection mutex serializes all access, so concurrent callers within
// one process cannot interleave a read-modify-write sequence and lose an
// update. The file itself is still last-writer-wins across processes.
package jsonstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"estate_assistant_backend/platform/logger"
)

// Collection is a mutex-guarded JSON array of T persisted at a fixed path.
type Collection[T any] struct {
	mu   sync.Mutex
	path string
	name string
	log  *logger.Logger
}

// New creates a collection backed by the file at path. The file and its
// parent directory are created on first access, not here.
func New[T any](path, name string, log *logger.Logger) *Collection[T] {
	return &Collection[T]{path: path, name: name, log: log}
}

// ReadAll returns every record in the collection.
// A missing file initializes to an empty collection. A file that fails to
// parse is treated as empty and reset on disk; the data loss is logged.
func (c *Collection[T]) ReadAll() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLocked()
}

// Mutate runs fn under the collection lock with the current records and
// persists whatever fn returns. If fn returns an error nothing is written.
func (c *Collection[T]) Mutate(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.readLocked()
	if err != nil {
		return err
	}

	next, err := fn(items)
	if err != nil {
		return err
	}

	return c.writeLocked(next)
}

func (c *Collection[T]) readLocked() ([]T, error) {
	if err := c.ensureLocked(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		// Corrupt store: recovery policy is reset-to-empty, not failure.
		c.log.Warn("collection corrupted, reinitializing", "collection", c.name, "error", err)
		if werr := c.writeLocked(nil); werr != nil {
			return nil, werr
		}
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) writeLocked(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

func (c *Collection[T]) ensureLocked() error {
	_, err := os.Stat(c.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path, []byte("[]"), 0o644)
}
