// ABOUTME: Durable key/value slot abstraction for snapshot persistence
// ABOUTME: Implemented by SQLite, Badger and Charm KV backends
package persist

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Backend.Get when the key has never been written
// or was deleted.
var ErrNotFound = errors.New("key not found")

// Backend is a string-keyed durable store holding whole values.
type Backend interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Close() error
}

// Kind names a Backend implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindBadger Kind = "badger"
	KindCharm  Kind = "charm"
)

// Options configures Open.
type Options struct {
	Kind Kind
	// Path is the SQLite file or the Badger directory.
	Path string
	// Charm settings, used when Kind is KindCharm.
	Charm CharmConfig
}

// Open returns the backend selected by opts.Kind.
func Open(opts Options) (Backend, error) {
	switch opts.Kind {
	case KindSQLite, "":
		return OpenSQLite(opts.Path)
	case KindBadger:
		return OpenBadger(opts.Path)
	case KindCharm:
		return OpenCharm(opts.Charm)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (valid: sqlite, badger, charm)", opts.Kind)
	}
}
