// Package state holds the small pieces of locally persisted configuration:
// the mailbox monitoring flag, poll bookkeeping, and OAuth token state.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store is a flat key-value store for scalar/JSON values. The file-backed
// implementation is the production one; tests inject NewMemoryStore.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

type fileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

func NewFileStore(path string) (Store, error) {
	s := &fileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	return s, nil
}

// Get implements Store.
func (s *fileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok
}

// Set implements Store.
func (s *fileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.persist()
}

// Delete implements Store.
func (s *fileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return s.persist()
}

func (s *fileStore) persist() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() Store {
	return &memoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (s *memoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok
}

// Set implements Store.
func (s *memoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete implements Store.
func (s *memoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
