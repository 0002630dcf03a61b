package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const cacheFileExtension = ".json"

// Cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
)

// Store is a TTL key/value store for encoded table listings.
type Store interface {
	Get(key string) (*Entry, error)
	Set(key string, data json.RawMessage) error
	Delete(key string) error
	Clear() error
	CleanupExpired() (int, error)
	Stats() (Stats, error)
}

// Stats summarizes a store for `cache info`.
type Stats struct {
	Backend   string        `json:"backend"             yaml:"backend"`
	Directory string        `json:"directory,omitempty" yaml:"directory,omitempty"`
	Entries   int           `json:"entries"             yaml:"entries"`
	Bytes     int64         `json:"bytes"               yaml:"bytes"`
	TTL       time.Duration `json:"ttl"                 yaml:"ttl"`
}

// FileStore keeps one JSON file per key. Writes go through a temp file and
// a rename so readers never see a partial entry.
type FileStore struct {
	directory string
	ttl       time.Duration
	mu        sync.RWMutex
}

// NewFileStore creates directory if needed and returns a store writing into it.
func NewFileStore(directory string, ttl time.Duration) (*FileStore, error) {
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{directory: directory, ttl: ttl}, nil
}

// Get returns the entry for key. Expired entries are removed and reported
// as ErrCacheExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	path := s.keyToFilePath(key)

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}
	return &entry, nil
}

// Set writes data under key with the store's TTL.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	entryData, err := json.Marshal(NewEntry(key, data, s.ttl))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.keyToFilePath(key)
	tempPath := path + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every cache file in the directory.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.cacheFiles()
	if err != nil {
		return err
	}
	for _, path := range files {
		if removeErr := os.Remove(path); removeErr != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(path), removeErr)
		}
	}
	return nil
}

// CleanupExpired removes expired entries and returns how many it removed.
func (s *FileStore) CleanupExpired() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.cacheFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		var entry Entry
		if json.Unmarshal(data, &entry) != nil {
			continue
		}
		if entry.IsExpired() && os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats counts entries (expired ones included) and their bytes on disk.
func (s *FileStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Backend: BackendFile, Directory: s.directory, TTL: s.ttl}
	files, err := s.cacheFiles()
	if err != nil {
		return stats, err
	}
	for _, path := range files {
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		stats.Entries++
		stats.Bytes += info.Size()
	}
	return stats, nil
}

// Directory returns where entries are written.
func (s *FileStore) Directory() string {
	return s.directory
}

func (s *FileStore) cacheFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	var out []string
	for _, de := range dirEntries {
		if !de.IsDir() && filepath.Ext(de.Name()) == cacheFileExtension {
			out = append(out, filepath.Join(s.directory, de.Name()))
		}
	}
	return out, nil
}

// keyToFilePath maps a key to a file name safe on every platform.
func (s *FileStore) keyToFilePath(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "-").Replace(key)
	return filepath.Join(s.directory, safe+cacheFileExtension)
}

// MemoryStore is a process-lifetime LRU whose entries expire after the TTL.
type MemoryStore struct {
	lru *expirable.LRU[string, *Entry]
	ttl time.Duration
}

// NewMemoryStore holds at most size entries, each for ttl.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	return &MemoryStore{lru: expirable.NewLRU[string, *Entry](size, nil, ttl), ttl: ttl}
}

// Get returns the live entry for key.
func (m *MemoryStore) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}
	entry, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrCacheNotFound
	}
	if entry.IsExpired() {
		m.lru.Remove(key)
		return nil, ErrCacheExpired
	}
	return entry, nil
}

// Set stores data under key.
func (m *MemoryStore) Set(key string, data json.RawMessage) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	m.lru.Add(key, NewEntry(key, data, m.ttl))
	return nil
}

// Delete drops key.
func (m *MemoryStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	m.lru.Remove(key)
	return nil
}

// Clear drops every entry.
func (m *MemoryStore) Clear() error {
	m.lru.Purge()
	return nil
}

// CleanupExpired drops expired entries the LRU has not evicted yet.
func (m *MemoryStore) CleanupExpired() (int, error) {
	removed := 0
	for _, key := range m.lru.Keys() {
		if entry, ok := m.lru.Peek(key); ok && entry.IsExpired() {
			m.lru.Remove(key)
			removed++
		}
	}
	return removed, nil
}

// Stats reports live entries and their payload size.
func (m *MemoryStore) Stats() (Stats, error) {
	stats := Stats{Backend: BackendMemory, TTL: m.ttl}
	for _, entry := range m.lru.Values() {
		stats.Entries++
		stats.Bytes += int64(len(entry.Data))
	}
	return stats, nil
}
