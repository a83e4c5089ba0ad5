// Package cas implements the persisted tier of the discovery cache.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore using a flat JSON file mapping
// signature hashes to cache entries. Writes are serialized.
type Store struct {
	path   string
	logger ports.Logger

	mu    sync.RWMutex
	cache map[string]domain.CacheEntry

	// writeMu serializes saves so concurrent Puts never interleave on disk.
	writeMu sync.Mutex
}

// NewStore creates a Store backed by the file at path. A missing file is
// an empty cache; an unreadable or corrupt one is logged and ignored.
func NewStore(path string, logger ports.Logger) *Store {
	s := &Store{
		path:   filepath.Clean(path),
		logger: logger,
		cache:  make(map[string]domain.CacheEntry),
	}
	if err := s.load(); err != nil && logger != nil {
		logger.Warn("ignoring discovery cache: " + err.Error())
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	entries := make(map[string]domain.CacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.path)
	}
	s.cache = entries

	return nil
}

func (s *Store) save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.path)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(errors.Join(werr, cerr), domain.ErrCacheWriteFailed.Error()), "path", s.path)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.path)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.path)
	}

	return nil
}

// Get retrieves the entry for a signature hash.
func (s *Store) Get(key string) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put stores the entry.
func (s *Store) Put(key string, entry domain.CacheEntry) error {
	// Update cache first
	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()

	// Then save to disk
	return s.save()
}

// Entries returns a copy of all entries.
func (s *Store) Entries() map[string]domain.CacheEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.cache)
}

// Clear drops every entry and removes the backing file.
func (s *Store) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.cache = make(map[string]domain.CacheEntry)
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheClearFailed.Error()), "path", s.path)
	}
	return nil
}
