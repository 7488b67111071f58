// Package store provides the key-value persistence used by the
// abandonment tracker.
//
// The interface mirrors browser storage semantics (get/set/remove);
// expiry is computed by the tracker from a stored timestamp, never by
// the store itself. Concurrent writers (multiple tabs) are possible and
// unguarded - last write wins, an accepted race for non-critical
// telemetry.
package store

import "errors"

// KeyValueStore persists small opaque records.
// Implementations must be safe for concurrent use.
type KeyValueStore interface {
	// Get retrieves the value for a key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(key string) ([]byte, error)

	// Set stores a value, overwriting any existing value for the key.
	Set(key string, value []byte) error

	// Remove deletes a key. Removing a missing key is not an error.
	Remove(key string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates the key doesn't exist.
	ErrNotFound = errors.New("key not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")
)
