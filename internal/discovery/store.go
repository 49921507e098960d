package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a byte-oriented key-value backing tier for cache entries,
// keyed by target identity. Implementations must tolerate deletes of
// missing keys.
type Store interface {
	// Get returns the stored bytes and whether the key existed.
	Get(key string) ([]byte, bool, error)
	// Set stores the bytes, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the key. Missing keys are not an error.
	Delete(key string) error
}

// MemoryStore is the in-process cache tier.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns the stored bytes and whether the key existed.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

// Set stores the bytes, replacing any previous value.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Delete removes the key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// FileStore persists one JSON file per target identity in a dedicated
// cache directory. The directory has a single writer: this store.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if needed and returns a store
// over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// path maps a target identity to its cache file. Identity strings can
// contain host:port separators, so unsafe characters are flattened.
func (s *FileStore) path(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return filepath.Join(s.dir, "compose_cache_"+b.String()+".json")
}

// Get reads the cache file for the key.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set writes the cache file for the key.
func (s *FileStore) Set(key string, value []byte) error {
	return os.WriteFile(s.path(key), value, 0o600)
}

// Delete removes the cache file. A missing file is not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
