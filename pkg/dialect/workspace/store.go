package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Version identifies the on-disk state of a document.
type Version struct {
	ModTime time.Time
	Size    int64
}

// Equal reports whether both versions describe the same file state.
func (v Version) Equal(other Version) bool {
	return v.Size == other.Size && v.ModTime.Equal(other.ModTime)
}

type storeEntry struct {
	version Version
	text    string
}

// StoreStats counts cache outcomes.
type StoreStats struct {
	Hits   int64
	Misses int64
}

// Store caches document text keyed by absolute path. An entry is reused
// while the file's modification time and size are unchanged; Invalidate
// drops it explicitly.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]storeEntry
	maxFileSize int64
	stats       StoreStats
}

// NewStore creates an empty store. maxFileSize of 0 disables the limit.
func NewStore(maxFileSize int64) *Store {
	return &Store{entries: make(map[string]storeEntry), maxFileSize: maxFileSize}
}

// Get returns the current text of path, reading it when the cached copy is
// missing or stale.
func (s *Store) Get(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		s.Invalidate(abs)
		return "", err
	}
	version := Version{ModTime: info.ModTime(), Size: info.Size()}

	s.mu.RLock()
	entry, ok := s.entries[abs]
	s.mu.RUnlock()
	if ok && entry.version.Equal(version) {
		s.mu.Lock()
		s.stats.Hits++
		s.mu.Unlock()
		return entry.text, nil
	}

	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return "", fmt.Errorf("document %s: size %d exceeds maximum %d bytes", abs, info.Size(), s.maxFileSize)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[abs] = storeEntry{version: version, text: string(data)}
	s.stats.Misses++
	s.mu.Unlock()

	return string(data), nil
}

// Put stores text for path as an unsaved buffer. It is served until the
// file on disk changes or the entry is invalidated.
func (s *Store) Put(path, text string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	var version Version
	if info, err := os.Stat(abs); err == nil {
		version = Version{ModTime: info.ModTime(), Size: info.Size()}
	}

	s.mu.Lock()
	s.entries[abs] = storeEntry{version: version, text: text}
	s.mu.Unlock()
}

// Invalidate drops the cached text of path.
func (s *Store) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.mu.Lock()
	delete(s.entries, abs)
	s.mu.Unlock()
}

// Len returns the number of cached documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns a snapshot of the hit and miss counters.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
