// Package kv provides the durable string-keyed slot that holds the serialized
// application state.
package kv

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	BackendFile   = "file"
	BackendNutsDB = "nutsdb"
	BackendMemory = "memory"
)

// Store is a string-keyed get/set store.
type Store interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Close releases the underlying resources.
	Close() error
}

// Open creates the Store for the given backend. For the file backend path is
// the JSON file; for nutsdb it is the database directory.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(path)
	case BackendNutsDB:
		if err := os.MkdirAll(path, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		return NewNutsDB(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultPath returns the slot location for backend under dir.
func DefaultPath(dir, backend string) string {
	if backend == BackendNutsDB {
		return filepath.Join(dir, "data")
	}
	return filepath.Join(dir, "data.json")
}
