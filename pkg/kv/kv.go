package kv

// Store defines the interface for an ordered key-value backing.
// Implementations of this interface can be swapped out,
// allowing for different storage backends (e.g., in-memory, Raft-replicated).
type Store interface {
	// Get retrieves the value associated with the given key.
	// Returns the value and true if the key exists, or empty string and false if not.
	Get(key string) (string, bool)

	// Set stores a key-value pair. An existing key keeps its position.
	// Returns an error if the operation fails.
	Set(key, value string) error

	// Delete removes a key from the store. Deleting a missing key is not an error.
	// Returns an error if the operation fails.
	Delete(key string) error

	// Range calls fn for every pair in insertion order until fn returns false.
	Range(fn func(key, value string) bool)

	// Len reports the number of keys.
	Len() int
}
