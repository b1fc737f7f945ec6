// Package kv provides the persisted key-value store the draft engine writes
// its records to. Implementations are synchronous and single-client; there
// are no transactions across keys.
package kv

// Store is a string-keyed blob store.
type Store interface {
	// Get returns the value stored under key. The second return is false
	// when the key is absent; that is not an error.
	Get(key string) ([]byte, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}
