package usertext

import (
	"fmt"

	"github.com/heysubinoy/pyaztext/pkg/kv"
)

// Store is the hierarchical text store. It owns no data itself; every
// operation reads and writes the kv.Store it was created with.
type Store struct {
	backing kv.Store
}

// New wraps backing. The caller owns the backing's lifecycle.
func New(backing kv.Store) *Store {
	return &Store{backing: backing}
}

// Backing returns the wrapped kv.Store.
func (s *Store) Backing() kv.Store {
	return s.backing
}

// Len reports the number of keys.
func (s *Store) Len() int {
	return s.backing.Len()
}

// ListAll returns every key and value in insertion order, plus the distinct
// sections derived from the keys that contain a Delimiter.
func (s *Store) ListAll() (keys, values, sections []string) {
	keys = []string{}
	values = []string{}
	sections = []string{}
	seen := make(map[string]struct{})

	s.backing.Range(func(key, value string) bool {
		keys = append(keys, key)
		values = append(values, value)
		if section, _, ok := SplitKey(key); ok {
			if _, dup := seen[section]; !dup {
				seen[section] = struct{}{}
				sections = append(sections, section)
			}
		}
		return true
	})
	return keys, values, sections
}

// Sections returns the distinct section names in first-seen order.
func (s *Store) Sections() []string {
	_, _, sections := s.ListAll()
	return sections
}

// EntryNames returns the entries of section in store order.
func (s *Store) EntryNames(section string) []string {
	var entries []string
	s.backing.Range(func(key, _ string) bool {
		if sec, entry, ok := SplitKey(key); ok && sec == section {
			entries = append(entries, entry)
		}
		return true
	})
	return entries
}

// Get returns the value stored under key. A missing key is reported through
// ok and is not an error.
func (s *Store) Get(key string) (value string, ok bool) {
	return s.backing.Get(key)
}

// Set upserts key. Neither key nor value is validated.
func (s *Store) Set(key, value string) error {
	if err := s.backing.Set(key, value); err != nil {
		return fmt.Errorf("usertext: set %q: %w", key, err)
	}
	return nil
}

// SetMany upserts keys[i] to values[i] in input order. Later duplicates win.
func (s *Store) SetMany(keys, values []string) error {
	if len(keys) != len(values) {
		return arityError("keys", len(keys), len(values))
	}
	for i := range keys {
		if err := s.Set(keys[i], values[i]); err != nil {
			return err
		}
	}
	return nil
}

// SetSection upserts the composite key section\entry.
func (s *Store) SetSection(section, entry, value string) error {
	return s.Set(JoinKey(section, entry), value)
}

// SetSectionMany upserts section\entries[i] to values[i].
func (s *Store) SetSectionMany(section string, entries, values []string) error {
	if len(entries) != len(values) {
		return arityError("entries", len(entries), len(values))
	}
	for i := range entries {
		if err := s.SetSection(section, entries[i], values[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteKey removes key. Deleting a missing key is a no-op.
func (s *Store) DeleteKey(key string) error {
	if _, ok := s.backing.Get(key); !ok {
		return nil
	}
	if err := s.backing.Delete(key); err != nil {
		return fmt.Errorf("usertext: delete %q: %w", key, err)
	}
	return nil
}
