// Package storage provides the client-scoped key-value stores backing the
// storefront session: an in-memory store for tests and a JSON-file-backed
// store for a persistent session. Keys hold JSON-encoded values, mirroring
// the durable key-value storage of the original client runtime.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrKeyNotFound indicates the requested key holds no value.
var ErrKeyNotFound = errors.New("storage: key not found")

// KeyValueStore is the durable key-value surface the storefront persists
// cart lines and preferences into. Implementations are safe for use from a
// single logical owner; two stores sharing the same file overwrite each
// other last-write-wins with no merge.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// MemoryStore provides an in-memory implementation useful for testing and
// ephemeral sessions.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryStore constructs an empty memory-backed store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get implements the KeyValueStore interface.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	dup := make([]byte, len(value))
	copy(dup, value)
	return dup, nil
}

// Set implements the KeyValueStore interface.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := make([]byte, len(value))
	copy(dup, value)
	s.values[key] = dup
	return nil
}

// Delete implements the KeyValueStore interface.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// FileStore persists keys into a single JSON object file. Every mutation
// rewrites the file in full. A corrupt or missing file behaves as empty
// rather than failing.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore constructs a store writing to the given path. The parent
// directory is created when absent.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: file path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: creating %s: %w", dir, err)
		}
	}
	return &FileStore{path: path}, nil
}

// Get implements the KeyValueStore interface.
func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	value, ok := values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

// Set implements the KeyValueStore interface.
func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	dup := make(json.RawMessage, len(value))
	copy(dup, value)
	values[key] = dup
	return s.write(values)
}

// Delete implements the KeyValueStore interface.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

// read loads the backing file, treating missing or corrupt content as empty.
func (s *FileStore) read() map[string]json.RawMessage {
	values := make(map[string]json.RawMessage)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return make(map[string]json.RawMessage)
	}
	return values
}

func (s *FileStore) write(values map[string]json.RawMessage) error {
	encoded, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encoding state: %w", err)
	}
	if err := os.WriteFile(s.path, encoded, 0o644); err != nil {
		return fmt.Errorf("storage: writing %s: %w", s.path, err)
	}
	return nil
}
