package storage

import (
	"errors"
	"io"
)

// ErrNotExist is returned by Read when the named blob is absent.
var ErrNotExist = errors.New("blob does not exist")

// Object describes one listed blob.
type Object struct {
	Name string
	URL  string
}

// Store is a key-value blob store scoped to one folder.
type Store interface {
	// List returns blobs whose name matches the glob pattern, case-insensitively,
	// sorted by name.
	List(pattern string) ([]Object, error)
	Read(name string) ([]byte, error)
	// Write replaces the named blob atomically.
	Write(name string, data []byte) error
	Exists(name string) (bool, error)
	// Append opens the named blob for appending, creating it if needed.
	Append(name string) (io.WriteCloser, error)
}
