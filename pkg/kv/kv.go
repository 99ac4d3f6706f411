package kv

import "context"

// Store is a versioned key-value store. Values are opaque byte blobs;
// every stored value carries a monotonically increasing version used for
// conditional writes.
type Store interface {
	// Get returns the value and its current version. ErrNotFound when the
	// key does not exist.
	Get(ctx context.Context, key string) ([]byte, int64, error)

	// Put stores value under key if the key's current version equals
	// version (0 meaning the key must not exist yet) and bumps the
	// version. ErrVersionMismatch when another writer got there first.
	Put(ctx context.Context, key string, value []byte, version int64) error

	// Close releases backend resources.
	Close() error
}
