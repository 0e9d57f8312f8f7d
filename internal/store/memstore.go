package store

import (
	"sync"

	"github.com/heysubinoy/pyaztext/pkg/kv"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MemStore is an in-memory implementation of the kv.Store interface.
// It keeps keys in insertion order and uses a RWMutex for thread-safe operations.
type MemStore struct {
	mu   sync.RWMutex
	data *orderedmap.OrderedMap[string, string]
}

// Compile-time check to ensure MemStore implements kv.Store.
var _ kv.Store = (*MemStore)(nil)

// NewMemStore creates and returns a new MemStore instance.
func NewMemStore() *MemStore {
	return &MemStore{
		data: orderedmap.New[string, string](),
	}
}

// Get retrieves a value by key from the store.
// Returns the value and true if found, empty string and false otherwise.
func (s *MemStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Get(key)
}

// Set stores a key-value pair in the store.
// Always returns nil for in-memory operations.
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Set(key, value)
	return nil
}

// Delete removes a key from the store.
// Always returns nil, even if the key doesn't exist.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Delete(key)
	return nil
}

// Range iterates over a snapshot of the pairs, so fn may mutate the store.
func (s *MemStore) Range(fn func(key, value string) bool) {
	s.mu.RLock()
	keys := make([]string, 0, s.data.Len())
	values := make([]string, 0, s.data.Len())
	for pair := s.data.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
		values = append(values, pair.Value)
	}
	s.mu.RUnlock()

	for i := range keys {
		if !fn(keys[i], values[i]) {
			return
		}
	}
}

// Len returns the number of keys in the store.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Len()
}

// Reset drops every key. Used when restoring a Raft snapshot.
func (s *MemStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = orderedmap.New[string, string]()
}
