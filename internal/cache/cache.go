// Package cache defines the narrow key-value contract the registry requires
// of its cache collaborator, plus an in-memory implementation.
package cache

import "time"

// Store is a key-value store with per-entry TTL. Implementations must make
// the per-key operations safe for concurrent use.
type Store interface {
	// Get returns the value stored under key and whether it was a hit.
	Get(key string) ([]byte, bool)

	// Set stores value under key. A ttl of zero means no expiry.
	Set(key string, value []byte, ttl time.Duration)

	// Delete evicts key. Deleting a missing key is a no-op.
	Delete(key string)
}
